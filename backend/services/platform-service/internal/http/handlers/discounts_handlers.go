package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/service"
)

// NewListDiscountsHandler handles GET /api/discounts.
func NewListDiscountsHandler(discounts *service.DiscountsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		list, err := discounts.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list discounts")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// NewCreateDiscountHandler handles POST /api/discounts.
func NewCreateDiscountHandler(discounts *service.DiscountsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var discount models.Discount
		if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := discounts.Create(r.Context(), &discount)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// NewUpdateDiscountHandler handles PUT /api/discounts/{id}.
func NewUpdateDiscountHandler(discounts *service.DiscountsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid discount id")
			return
		}

		var discount models.Discount
		if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		updated, err := discounts.Update(r.Context(), id, &discount)
		if err != nil {
			if errors.Is(err, service.ErrDiscountNotFound) {
				writeError(w, http.StatusNotFound, "Discount not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// NewDeleteDiscountHandler handles DELETE /api/discounts/{id}.
func NewDeleteDiscountHandler(discounts *service.DiscountsService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid discount id")
			return
		}

		if err := discounts.Delete(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrDiscountNotFound) {
				writeError(w, http.StatusNotFound, "Discount not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete discount")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
