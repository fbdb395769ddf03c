package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
