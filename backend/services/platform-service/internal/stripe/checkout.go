package stripecheckout

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"chargenet/backend/services/platform-service/internal/service"
)

const metadataReservationKey = "reservation_id"

// Checkout implements service.CheckoutProvider against the Stripe checkout API.
type Checkout struct {
	successURL string
	cancelURL  string
}

// New configures the global Stripe key and returns the provider.
func New(apiKey, successURL, cancelURL string) (*Checkout, error) {
	if apiKey == "" {
		return nil, errors.New("stripe: api key is required")
	}
	stripe.Key = apiKey
	return &Checkout{successURL: successURL, cancelURL: cancelURL}, nil
}

// CreateSession opens a card checkout session for the reservation amount.
func (c *Checkout) CreateSession(_ context.Context, reservationID int64, amountCents int64, description string) (*service.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.AddMetadata(metadataReservationKey, strconv.FormatInt(reservationID, 10))
	params.SetIdempotencyKey(uuid.NewString())

	created, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &service.CheckoutSession{
		ID:            created.ID,
		URL:           created.URL,
		Paid:          created.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		ReservationID: reservationID,
	}, nil
}

// GetSession retrieves a checkout session and decodes the reservation id
// stored in its metadata.
func (c *Checkout) GetSession(_ context.Context, sessionID string) (*service.CheckoutSession, error) {
	fetched, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, err
	}

	raw, ok := fetched.Metadata[metadataReservationKey]
	if !ok {
		return nil, errors.New("stripe: reservation id missing from session metadata")
	}
	reservationID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("stripe: invalid reservation id in session metadata")
	}

	return &service.CheckoutSession{
		ID:            fetched.ID,
		URL:           fetched.URL,
		Paid:          fetched.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		ReservationID: reservationID,
	}, nil
}
