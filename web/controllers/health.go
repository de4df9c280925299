package controllers

import (
	"net/http"

	"github.com/campusbites/campusbites-client/pkg/config"
	"github.com/campusbites/campusbites-client/web/responses"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":      "ok",
			"environment": cfg.App.Env,
		})
	}
}
