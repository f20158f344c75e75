package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/apikey/internal/apikey/service"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/pkg/httpx"
	"github.com/aussiebroadwan/apikey/pkg/jwtx"
	"github.com/aussiebroadwan/apikey/pkg/slogx"

	_ "github.com/aussiebroadwan/apikey/api/apikey" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store      store.Store
	KeyService *service.KeyService

	// KeyParser selects the header API keys are read from.
	KeyParser httpx.KeyParser

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerKeys()
	r.registerPing()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			API Key Service
//	@version		0.1.0
//	@description	Issues, stores and verifies opaque API keys of the form <prefix>.<secret>.
//	@description
//	@description				Keys are shown once at creation. Only a salted hash is stored.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/apikey
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	APIKeyAuth
//	@in							header
//	@name						Api-Key
//	@description				An issued API key: <prefix>.<secret>.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerKeys() {
	h := &KeysHandler{KeyService: r.KeyService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeKeysRead, jwtx.ScopeKeysWrite),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeKeysWrite),
		)
	}

	r.Mux.Handle("POST /v1/keys", write(h.HandleCreate))
	r.Mux.Handle("GET /v1/keys", read(h.HandleList))
	r.Mux.Handle("GET /v1/keys/{id}", read(h.HandleGet))
	r.Mux.Handle("PATCH /v1/keys/{id}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/keys/{id}", write(h.HandleDelete))
	r.Mux.Handle("POST /v1/keys/{id}/revoke", write(h.HandleRevoke))
}

func (r *Router) registerPing() {
	r.Mux.Handle("GET /v1/ping",
		httpx.Chain(PingHandler(),
			httpx.RequireAPIKey(r.KeyService, r.KeyParser),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
