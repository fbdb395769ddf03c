package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
)

var (
	// ErrReservationNotPayable is returned when a reservation cannot be paid.
	ErrReservationNotPayable = errors.New("reservation cannot be paid")
	// ErrReservationAlreadyPaid marks double-payment attempts.
	ErrReservationAlreadyPaid = errors.New("reservation is already paid")
	// ErrPaymentNotCompleted is returned when a checkout session is not paid.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// CheckoutSession is the provider-agnostic view of a payment session.
type CheckoutSession struct {
	ID            string
	URL           string
	Paid          bool
	ReservationID int64
}

// CheckoutProvider abstracts the payment gateway.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, reservationID int64, amountCents int64, description string) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// ReservationAccess is the slice of the reservations service needed here.
type ReservationAccess interface {
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	MarkPaid(ctx context.Context, id int64) error
}

// PaymentsService creates and verifies checkout sessions for reservations.
type PaymentsService struct {
	provider     CheckoutProvider
	reservations ReservationAccess
	logger       *zap.Logger
}

// NewPaymentsService builds PaymentsService.
func NewPaymentsService(provider CheckoutProvider, reservations ReservationAccess, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		provider:     provider,
		reservations: reservations,
		logger:       logger,
	}
}

// CreateCheckout opens a payment session for a reservation's estimated cost.
func (s *PaymentsService) CreateCheckout(ctx context.Context, reservationID int64) (*CheckoutSession, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Paid {
		return nil, ErrReservationAlreadyPaid
	}
	if reservation.EstimatedCost <= 0 {
		return nil, ErrReservationNotPayable
	}
	if reservation.Status != models.ReservationStatusActive && reservation.Status != models.ReservationStatusCompleted {
		return nil, ErrReservationNotPayable
	}

	amountCents := int64(math.Round(reservation.EstimatedCost * 100))
	session, err := s.provider.CreateSession(ctx, reservation.ID, amountCents, checkoutDescription(reservation.ID))
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.Int64("reservation_id", reservation.ID),
		zap.String("session_id", session.ID),
		zap.Int64("amount_cents", amountCents),
	)
	return session, nil
}

// VerifyCheckout confirms a paid session and marks the reservation as paid.
// Verifying an already-paid reservation is a no-op.
func (s *PaymentsService) VerifyCheckout(ctx context.Context, sessionID string) error {
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.Paid {
		return ErrPaymentNotCompleted
	}

	reservation, err := s.reservations.GetByID(ctx, session.ReservationID)
	if err != nil {
		return err
	}
	if reservation.Paid {
		return nil
	}

	if err := s.reservations.MarkPaid(ctx, reservation.ID); err != nil {
		return err
	}
	s.logger.Info("payment verified",
		zap.Int64("reservation_id", reservation.ID),
		zap.String("session_id", sessionID),
	)
	return nil
}

func checkoutDescription(reservationID int64) string {
	return "Charging reservation #" + strconv.FormatInt(reservationID, 10)
}
