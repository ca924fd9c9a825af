package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/metrics"
	"finanzas/internal/middleware/ratelimit"
	"finanzas/internal/middleware/security"
	"finanzas/internal/middleware/trace"
	"finanzas/internal/services"
)

type (
	ClientReader interface {
		List(ctx context.Context, search string) ([]core.Client, error)
		Get(ctx context.Context, id int64) (core.Client, error)
	}

	AvalReader interface {
		Get(ctx context.Context, id int64) (core.Aval, error)
	}

	// Pinger reports whether the store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Dependencies are the services behind the API.
type Dependencies struct {
	Contracts *services.ContractService
	Ledger    *services.LedgerService
	Clients   ClientReader
	Avales    AvalReader
	Store     Pinger
}

// Options tune the server; zero values fall back to defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *applog.Logger
	Now                func() time.Time
}

type Server struct {
	http.Server
	contracts *services.ContractService
	ledger    *services.LedgerService
	clients   ClientReader
	avales    AvalReader
	store     Pinger
	limiter   *ratelimit.Limiter
	now       func() time.Time
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, deps Dependencies) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		contracts: deps.Contracts,
		ledger:    deps.Ledger,
		clients:   deps.Clients,
		avales:    deps.Avales,
		store:     deps.Store,
		limiter:   ratelimit.NewLimiter(limiterCfg),
		now:       opts.Now,
		started:   opts.Now(),
	}

	ips := security.NewIPResolver()
	tracer := trace.NewMiddleware(opts.Logger, ips.ClientIP)

	r := mux.NewRouter()
	r.NotFoundHandler = notFoundHandler()
	r.MethodNotAllowedHandler = methodNotAllowedHandler()
	r.Use(tracer.Middleware, applog.RequestIDMiddleware(trace.RequestIDFromRequest))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	limit := s.limiter.Middleware(ips.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusTooManyRequests, "Demasiadas solicitudes, intente más tarde")
	})
	s.routes(r, limit)

	var h http.Handler = r
	h = applog.Middleware(opts.Logger)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = security.CORSMiddleware(security.DefaultCORSConfig())(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// routes registers the API on the root router. Every /api route shares the
// root's matcher list, so a wrong method on a known path reaches the 405
// handler. Collection GETs also serve ?id=N, which older clients use.
func (s *Server) routes(r *mux.Router, limit func(http.Handler) http.Handler) {
	api := func(path string, h http.HandlerFunc, methods ...string) {
		r.Handle("/api"+path, limit(h)).Methods(methods...)
	}

	api("/categories", s.handleListCategories, http.MethodGet)

	api("/clients", byQueryID(s.handleGetClient, s.handleListClients), http.MethodGet)
	api("/clients/{id:[0-9]+}", s.handleGetClient, http.MethodGet)
	api("/avales/{id:[0-9]+}", s.handleGetAval, http.MethodGet)

	api("/contracts/quote", s.handleQuote, http.MethodPost)
	api("/contracts", byQueryID(s.handleGetContract, s.handleListContracts), http.MethodGet)
	api("/contracts", s.handleCreateContract, http.MethodPost)
	api("/contracts", s.handleDeleteContract, http.MethodDelete)
	api("/contracts/{id:[0-9]+}", s.handleGetContract, http.MethodGet)
	api("/contracts/{id:[0-9]+}", s.handleDeleteContract, http.MethodDelete)
	api("/contracts/{id:[0-9]+}/schedule", s.handleSchedule, http.MethodGet)

	api("/transactions/export", s.handleExportTransactions, http.MethodGet)
	api("/transactions", byQueryID(s.handleGetTransaction, s.handleListTransactions), http.MethodGet)
	api("/transactions", s.handleCreateTransaction, http.MethodPost)
	api("/transactions", s.handleDeleteTransaction, http.MethodDelete)
	api("/transactions/{id:[0-9]+}", s.handleGetTransaction, http.MethodGet)
	api("/transactions/{id:[0-9]+}", s.handleDeleteTransaction, http.MethodDelete)

	api("/weeks/current", s.handleCurrentWeek, http.MethodGet)
	api("/weeks", byQueryID(s.handleGetWeek, s.handleListWeeks), http.MethodGet)
	api("/weeks", s.handleCreateWeek, http.MethodPost)
	api("/weeks", s.handleDeleteWeek, http.MethodDelete)
	api("/weeks/{id:[0-9]+}", s.handleGetWeek, http.MethodGet)
	api("/weeks/{id:[0-9]+}", s.handleDeleteWeek, http.MethodDelete)
	api("/weeks/{id:[0-9]+}/summary", s.handleWeekSummary, http.MethodGet)
}

// byQueryID serves one record when the request carries ?id and the
// collection otherwise.
func byQueryID(one, all http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("id") {
			one(w, r)
			return
		}
		all(w, r)
	}
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
