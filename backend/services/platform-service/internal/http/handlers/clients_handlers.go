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

// NewSignupHandler handles POST /api/clients/signup.
func NewSignupHandler(accounts *service.AccountsService) httprouter.Handle {
	type request struct {
		Name               string  `json:"name"`
		Email              string  `json:"email"`
		Password           string  `json:"password"`
		BatteryCapacityKwh float64 `json:"batteryCapacityKwh"`
		FullRangeKm        float64 `json:"fullRangeKm"`
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		client, err := accounts.Signup(r.Context(), service.SignupInput{
			Name:               strings.TrimSpace(req.Name),
			Email:              strings.TrimSpace(req.Email),
			Password:           req.Password,
			BatteryCapacityKwh: req.BatteryCapacityKwh,
			FullRangeKm:        req.FullRangeKm,
		})
		if err != nil {
			if errors.Is(err, service.ErrEmailInUse) {
				writeError(w, http.StatusConflict, "Email already exists")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, client)
	}
}

// NewLoginHandler handles POST /api/clients/login.
func NewLoginHandler(accounts *service.AccountsService) httprouter.Handle {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Token  string         `json:"token"`
		Client *models.Client `json:"client"`
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		token, client, err := accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeError(w, http.StatusForbidden, "Invalid credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		writeJSON(w, http.StatusOK, response{Token: token, Client: client})
	}
}

// NewUpdateProfileHandler handles PUT /api/clients/{email}.
func NewUpdateProfileHandler(accounts *service.AccountsService) httprouter.Handle {
	type request struct {
		Name               string  `json:"name"`
		Password           string  `json:"password"`
		BatteryCapacityKwh float64 `json:"batteryCapacityKwh"`
		FullRangeKm        float64 `json:"fullRangeKm"`
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email := strings.TrimSpace(ps.ByName("email"))
		if email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		client, err := accounts.UpdateProfile(r.Context(), email, service.ProfileUpdateInput{
			Name:               strings.TrimSpace(req.Name),
			Password:           req.Password,
			BatteryCapacityKwh: req.BatteryCapacityKwh,
			FullRangeKm:        req.FullRangeKm,
		})
		if err != nil {
			if errors.Is(err, service.ErrClientNotFound) {
				writeError(w, http.StatusNotFound, "Client not found")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

// NewChangeRoleHandler handles PUT /api/clients/changeRole/{id}.
func NewChangeRoleHandler(accounts *service.AccountsService) httprouter.Handle {
	type request struct {
		Role models.Role `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client id")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		client, err := accounts.ChangeRole(r.Context(), id, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrClientNotFound):
				writeError(w, http.StatusNotFound, "Client not found")
			case errors.Is(err, service.ErrInvalidRole):
				writeError(w, http.StatusBadRequest, "Invalid role")
			default:
				writeError(w, http.StatusInternalServerError, "failed to change role")
			}
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}
