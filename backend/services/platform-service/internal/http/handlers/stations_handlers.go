package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/service"
)

// NewListStationsHandler handles GET /api/stations.
func NewListStationsHandler(stations *service.StationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		summaries, err := stations.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list stations")
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// NewSearchStationsHandler handles GET /api/stations/search.
func NewSearchStationsHandler(stations *service.StationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		query := r.URL.Query()

		dayOfWeek, err := strconv.Atoi(query.Get("dayOfWeek"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dayOfWeek")
			return
		}
		hour, err := strconv.Atoi(query.Get("hour"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid hour")
			return
		}
		chargerType := models.ChargerType(query.Get("chargerType"))

		summaries, err := stations.SearchBySlot(r.Context(), dayOfWeek, hour, chargerType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// NewStationDetailsHandler handles GET /api/stations/{id}/details. The
// optional datetime query parameter is RFC 3339 and defaults to now.
func NewStationDetailsHandler(stations *service.StationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		at := time.Now()
		if raw := r.URL.Query().Get("datetime"); raw != "" {
			at, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid datetime, expected RFC 3339")
				return
			}
		}

		details, err := stations.Details(r.Context(), id, at)
		if err != nil {
			if errors.Is(err, service.ErrStationNotFound) {
				writeError(w, http.StatusNotFound, "Station not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to fetch station details")
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

// NewCreateStationHandler handles POST /api/stations.
func NewCreateStationHandler(stations *service.StationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var station models.Station
		if err := json.NewDecoder(r.Body).Decode(&station); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := stations.Create(r.Context(), &station)
		if err != nil {
			if errors.Is(err, service.ErrStationExists) {
				writeError(w, http.StatusConflict, "Station already exists at this location")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// NewDeleteStationHandler handles DELETE /api/stations/{id}.
func NewDeleteStationHandler(stations *service.StationsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid station id")
			return
		}

		if err := stations.Delete(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrStationNotFound) {
				writeError(w, http.StatusNotFound, "Station not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete station")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
