package app

import (
	"net/http"

	"github.com/cankorkmaz/cinegrid/api"
)

func (app *application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthcheckResponse{
		Status: "UP",
		SystemInfo: api.SystemInfo{
			Version:     version,
			Environment: app.config.env,
		},
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
