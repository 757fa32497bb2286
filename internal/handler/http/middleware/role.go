package middleware

import (
	"net/http"

	"github.com/saiharipapers/factory-erp/internal/domain/auth"
	"github.com/saiharipapers/factory-erp/internal/handler/http/response"
)

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := RoleFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		if role != auth.RoleAdmin {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
