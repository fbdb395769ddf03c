package middleware

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"chargenet/backend/services/platform-service/internal/models"
	"chargenet/backend/services/platform-service/internal/service"
)

// RequireRole guards a route with JWT bearer auth and a role allowlist.
func RequireRole(tokens *service.TokenService, next httprouter.Handle, roles ...models.Role) httprouter.Handle {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		if len(allowed) > 0 {
			if _, ok := allowed[claims.Role]; !ok {
				forbidden(w)
				return
			}
		}

		next(w, r, ps)
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"insufficient role"}`))
}
