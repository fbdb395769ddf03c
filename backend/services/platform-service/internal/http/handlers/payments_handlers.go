package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/service"
)

// NewCreateCheckoutHandler handles POST /api/payment/create-checkout-session.
func NewCreateCheckoutHandler(payments *service.PaymentsService) httprouter.Handle {
	type request struct {
		ReservationID int64 `json:"reservationId"`
	}
	type response struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		session, err := payments.CreateCheckout(r.Context(), req.ReservationID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, "Reservation not found")
			case errors.Is(err, service.ErrReservationAlreadyPaid):
				writeError(w, http.StatusConflict, "Reservation is already paid")
			case errors.Is(err, service.ErrReservationNotPayable):
				writeError(w, http.StatusBadRequest, "Reservation cannot be paid")
			default:
				writeError(w, http.StatusInternalServerError, "failed to create checkout session")
			}
			return
		}
		writeJSON(w, http.StatusOK, response{SessionID: session.ID, URL: session.URL})
	}
}

// NewVerifyCheckoutHandler handles GET /api/payment/verify-session.
func NewVerifyCheckoutHandler(payments *service.PaymentsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, "session_id is required")
			return
		}

		if err := payments.VerifyCheckout(r.Context(), sessionID); err != nil {
			switch {
			case errors.Is(err, service.ErrPaymentNotCompleted):
				writeError(w, http.StatusBadRequest, "Payment not completed")
			case errors.Is(err, service.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, "Reservation not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to verify payment")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "paid"})
	}
}
