package handlers

import (
	"net/http"

	"github.com/upb/authgate/app"
	"github.com/upb/authgate/middleware"
	"github.com/upb/authgate/utils"
	"go.uber.org/zap"
)

// CurrentUserHandler handles GET /api/v1/me and returns the verified claims
// attached by RequireAuth.
func CurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			deps.Logger.Error("claims not found in context",
				zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
			_ = utils.WriteUnauthorized(w, "")
			return
		}

		_ = utils.WriteOK(w, claims)
	}
}
