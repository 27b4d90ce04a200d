package controllers

import (
	"net/http"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/app"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// The store must answer. A failing cache is reported but does not fail
// the check since reads fall back to the store.
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	results := c.app.Ping(r.Context())
	resp := dtos.HealthCheckResponse{Status: "OK", Checks: map[string]string{}}
	for name, err := range results {
		if err != nil {
			resp.Checks[name] = err.Error()
		} else {
			resp.Checks[name] = "OK"
		}
	}
	if err := results["store"]; err != nil {
		utils.Logger.WithError(err).Error("inventory-service store unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Database unreachable", resp.Checks, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
