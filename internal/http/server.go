package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"networth/internal/log"
	"networth/internal/middleware/ratelimit"
	"networth/internal/middleware/security"
	"networth/internal/middleware/trace"
	"networth/internal/query"
	"networth/internal/records"
	"networth/internal/services"
)

const readyTimeout = 2 * time.Second

// Options configures NewServer. Zero values select defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *log.Logger
	// Pinger backs /readyz. A nil Pinger is always ready.
	Pinger records.Pinger
}

type Server struct {
	http.Server
	queries   *query.Engine
	mutations *services.SnapshotService
	pinger    records.Pinger
	logger    *log.Logger

	rateLimiter *ratelimit.Limiter
	ipResolver  *security.IPResolver
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options, queries *query.Engine, mutations *services.SnapshotService) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		queries:     queries,
		mutations:   mutations,
		pinger:      opts.Pinger,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		ipResolver:  security.NewIPResolver(),
	}
	s.tracer = trace.NewMiddleware(logger, s.ipResolver.ClientIP)

	s.routes(mux)

	limit := s.rateLimiter.Middleware(s.ipResolver.ClientIP, s.handleRateLimited,
		http.MethodPost, http.MethodPatch, http.MethodDelete)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers.Middleware(limit(mux)))
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/totals/latest", s.handleLatestTotals)
	mux.HandleFunc("GET /api/totals/history", s.handleTotalsHistory)

	registerCategory(s, mux, s.mutations.Current, s.queries.ListCurrentAccounts)
	registerCategory(s, mux, s.mutations.Cash, s.queries.ListCashAccounts)
	registerCategory(s, mux, s.mutations.Uk, s.queries.ListUkAccounts)
	registerCategory(s, mux, s.mutations.Super, s.queries.ListSuperAccounts)
	registerCategory(s, mux, s.mutations.Investments, s.queries.ListInvestmentAccounts)
	registerCategory(s, mux, s.mutations.Mortgage, s.queries.ListMortgage)
	registerCategory(s, mux, s.mutations.Budget, s.queries.ListBudget)
	mux.HandleFunc("GET /api/snapshots/current/by-date/{date}", s.handleCurrentByDate)
	mux.HandleFunc("GET /api/snapshots/{category}", handleUnknownCategory)
	mux.HandleFunc("POST /api/snapshots/{category}", handleUnknownCategory)
	mux.HandleFunc("POST /api/snapshots", s.handleAddSnapshot)
	mux.HandleFunc("POST /api/exchange-rates", s.handleExchangeRates)

	mux.HandleFunc("GET /api/crypto/transactions", s.handleListCryptoTransactions)
	mux.HandleFunc("POST /api/crypto/transactions", s.handleCreateCryptoTransaction)
	mux.HandleFunc("DELETE /api/crypto/transactions/{id}", s.handleDeleteCryptoTransaction)
	mux.HandleFunc("GET /api/crypto/summaries", s.handleListCryptoSummaries)
	mux.HandleFunc("POST /api/crypto/summaries", s.handleCreateCryptoSummary)
	mux.HandleFunc("PATCH /api/crypto/summaries/{id}", s.handleUpdateCryptoSummary)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.ipResolver.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(r, http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
}

// Shutdown gracefully shuts down the server and its cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Stats reports counters for the shutdown log.
func (s *Server) Stats() (requests, rateLimited int64) {
	return s.tracer.TotalRequests(), s.rateLimiter.Rejected()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func handleUnknownCategory(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(r, http.StatusNotFound, "unknown category "+strconv.Quote(r.PathValue("category"))).Write(w)
}
