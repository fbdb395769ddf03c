package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/service"
)

// NewCreateChargerHandler handles POST /api/chargers.
func NewCreateChargerHandler(chargers *service.ChargersService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var charger models.Charger
		if err := json.NewDecoder(r.Body).Decode(&charger); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := chargers.Create(r.Context(), &charger)
		if err != nil {
			if errors.Is(err, service.ErrStationNotFound) {
				writeError(w, http.StatusBadRequest, "Station not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// NewStationChargersHandler handles GET /api/chargers/station/{id}.
func NewStationChargersHandler(chargers *service.ChargersService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		stationID, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		list, err := chargers.ListByStation(r.Context(), stationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list chargers")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// NewAvailableChargersHandler handles GET /api/chargers/available.
func NewAvailableChargersHandler(chargers *service.ChargersService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		list, err := chargers.ListAvailable(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list chargers")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// NewChargerStatusHandler handles PUT /api/chargers/{id}/status.
func NewChargerStatusHandler(chargers *service.ChargersService) httprouter.Handle {
	type request struct {
		Status models.ChargerStatus `json:"status"`
		Note   string               `json:"note"`
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid charger id")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		charger, err := chargers.UpdateStatus(r.Context(), id, req.Status, strings.TrimSpace(req.Note))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrChargerNotFound):
				writeError(w, http.StatusNotFound, "Charger not found")
			case errors.Is(err, service.ErrInvalidChargerStatus):
				writeError(w, http.StatusBadRequest, "Invalid charger status")
			default:
				writeError(w, http.StatusInternalServerError, "failed to update charger status")
			}
			return
		}
		writeJSON(w, http.StatusOK, charger)
	}
}

// NewDeleteChargerHandler handles DELETE /api/chargers/{id}.
func NewDeleteChargerHandler(chargers *service.ChargersService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid charger id")
			return
		}

		if err := chargers.Delete(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrChargerNotFound) {
				writeError(w, http.StatusNotFound, "Charger not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete charger")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// NewChargerCountHandler handles GET /api/chargers/count/{status}/total.
// The path segment is lowercase (available, in_use, under_maintenance).
func NewChargerCountHandler(chargers *service.ChargersService) httprouter.Handle {
	type response struct {
		Status models.ChargerStatus `json:"status"`
		Total  int64                `json:"total"`
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		status := models.ChargerStatus(strings.ToUpper(ps.ByName("status")))

		total, err := chargers.CountByStatus(r.Context(), status)
		if err != nil {
			if errors.Is(err, service.ErrInvalidChargerStatus) {
				writeError(w, http.StatusBadRequest, "Invalid charger status")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to count chargers")
			return
		}
		writeJSON(w, http.StatusOK, response{Status: status, Total: total})
	}
}
