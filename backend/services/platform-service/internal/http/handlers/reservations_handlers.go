package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/service"
)

// NewCreateReservationHandler handles POST /api/reservations.
func NewCreateReservationHandler(reservations *service.ReservationsService) httprouter.Handle {
	type request struct {
		ClientID          int64     `json:"clientId"`
		ChargerID         int64     `json:"chargerId"`
		StartTime         time.Time `json:"startTime"`
		EstimatedEndTime  time.Time `json:"estimatedEndTime"`
		BatteryLevelStart int       `json:"batteryLevelStart"`
		EstimatedKwh      float64   `json:"estimatedKwh"`
		EstimatedCost     float64   `json:"estimatedCost"`
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		reservation, err := reservations.Create(r.Context(), service.ReservationInput{
			ClientID:          req.ClientID,
			ChargerID:         req.ChargerID,
			StartTime:         req.StartTime,
			EstimatedEndTime:  req.EstimatedEndTime,
			BatteryLevelStart: req.BatteryLevelStart,
			EstimatedKwh:      req.EstimatedKwh,
			EstimatedCost:     req.EstimatedCost,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrClientNotFound):
				writeError(w, http.StatusNotFound, "Client not found")
			case errors.Is(err, service.ErrChargerNotFound):
				writeError(w, http.StatusNotFound, "Charger not found")
			case errors.Is(err, service.ErrChargerUnderMaintenance):
				writeError(w, http.StatusBadRequest, "This charger is currently under maintenance and cannot be reserved.")
			case errors.Is(err, service.ErrChargerAlreadyReserved):
				writeError(w, http.StatusBadRequest, "Charger is already reserved for the requested time.")
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, reservation)
	}
}

// NewClientReservationsHandler handles GET /api/reservations/client/{id}.
func NewClientReservationsHandler(reservations *service.ReservationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		clientID, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client id")
			return
		}

		list, err := reservations.ListByClient(r.Context(), clientID)
		if err != nil {
			if errors.Is(err, service.ErrClientNotFound) {
				writeError(w, http.StatusNotFound, "Client not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to list reservations")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// NewCancelReservationHandler handles DELETE /api/reservations/{id}.
func NewCancelReservationHandler(reservations *service.ReservationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid reservation id")
			return
		}

		reservation, err := reservations.Cancel(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, "Reservation not found")
			case errors.Is(err, service.ErrNotActive):
				writeError(w, http.StatusBadRequest, "Invalid reservation status: only active reservations can be cancelled")
			default:
				writeError(w, http.StatusInternalServerError, "failed to cancel reservation")
			}
			return
		}
		writeJSON(w, http.StatusOK, reservation)
	}
}

// NewCompleteReservationHandler handles PUT /api/reservations/{id}/complete.
func NewCompleteReservationHandler(reservations *service.ReservationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid reservation id")
			return
		}

		reservation, err := reservations.Complete(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, "Reservation not found")
			case errors.Is(err, service.ErrNotActive):
				writeError(w, http.StatusBadRequest, "Invalid reservation status: only active reservations can be completed")
			default:
				writeError(w, http.StatusInternalServerError, "failed to complete reservation")
			}
			return
		}
		writeJSON(w, http.StatusOK, reservation)
	}
}

// NewStationStatsHandler handles GET /api/reservations/stats. The optional
// since query parameter is RFC 3339; default is 30 days back.
func NewStationStatsHandler(reservations *service.ReservationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		since := time.Now().AddDate(0, 0, -30)
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid since, expected RFC 3339")
				return
			}
			since = parsed
		}

		stats, err := reservations.StationStats(r.Context(), since)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to aggregate stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
