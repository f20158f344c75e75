package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/pkg/httpx"
	"github.com/aussiebroadwan/apikey/pkg/keysdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	keysdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keysdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe that also pings the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	keysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	keysdk.HealthResponse	"database unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &keysdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, keysdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// PingHandler godoc
//
//	@Summary		API key check
//	@Description	Answers 200 only when a valid, unrevoked, unexpired API key is presented.
//	@Tags			Keys
//	@Produce		json
//	@Security		APIKeyAuth
//	@Success		200	{object}	keysdk.PingResponse
//	@Failure		401	{object}	keysdk.ErrorResponse	"missing or invalid API key"
//	@Router			/v1/ping [get].
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keysdk.PingResponse{Status: "ok"})
	}
}
