package handlers

import (
	"net/http"

	"github.com/upb/authgate/app"
	"github.com/upb/authgate/utils"
)

// Version is reported by the status endpoint
const Version = "0.1.0"

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"version":     Version,
			"environment": deps.Config.Environment,
			"algorithms":  deps.Verifier.Algorithms(),
		}

		_ = utils.WriteJSON(w, http.StatusOK, response)
	}
}
