// Package http serves the tracker as a local JSON API for forms and
// charts. It is single-user: whoever logged in last owns the session.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Tracker is the state the server reads and mutates.
type Tracker interface {
	Revision() uint64
	Snapshot() core.Snapshot
	CurrentUser() (core.User, bool)
	IsAuthenticated() bool
	LastPersistError() error

	SetUser(ctx context.Context, u core.User)
	ClearUser(ctx context.Context)
	EndSession(ctx context.Context)
	Reset(ctx context.Context)

	AddExpense(ctx context.Context, d core.Draft) (core.Expense, core.Coerced, error)
	UpdateExpense(ctx context.Context, id int64, p core.Patch) (core.Expense, bool, error)
	DeleteExpense(ctx context.Context, id int64) int
	SetCategoryBudget(ctx context.Context, c core.Category, amount string) core.Coerced
	SetTotalBudget(ctx context.Context, amount string) core.Coerced

	ExpensesByRecency() []core.Expense
	Summary() core.Summary
	CategoryTotals() core.CategoryTotals
	BudgetUsage() []core.BudgetUsage
	Trend() core.Trend
	MonthlyOverviews() []core.MonthOverview
}

// StorageStatus is implemented by durable backends that can describe
// themselves on /healthz.
type StorageStatus interface {
	SchemaVersion() (version uint, dirty bool, err error)
	LastWrite(ctx context.Context) (at time.Time, ok bool, err error)
}

// Options tune the server. Zero values pick the defaults.
type Options struct {
	Logger    *log.Logger
	CacheTTL  time.Duration
	CacheSize int
	// RateLimit caps mutating requests per client per minute.
	RateLimit int
	// Storage adds a storage block to /healthz when set.
	Storage StorageStatus
}

type Server struct {
	http.Server
	tracker     Tracker
	storage     StorageStatus
	log         *log.Logger
	rateLimiter *rateLimiter

	// Derived views keyed by tracker revision
	dashboardCache *cache.LRUCache[dashboardView]
	trendCache     *cache.LRUCache[trendView]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run server.
func NewServer(addr string, t Tracker, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}

	s := &Server{
		tracker:        t,
		storage:        opts.Storage,
		log:            opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter:    newRateLimiter(opts.RateLimit, time.Minute),
		dashboardCache: cache.NewLRUCache[dashboardView](opts.CacheSize, opts.CacheTTL),
		trendCache:     cache.NewLRUCache[trendView](opts.CacheSize, opts.CacheTTL),
		cacheManager:   cache.NewManager(opts.Logger),
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.trendCache)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("POST /api/session/end", s.handleEndSession)
	mux.HandleFunc("POST /api/reset", s.requireAuth(s.handleReset))

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/budgets", s.handleGetBudgets)
	mux.HandleFunc("PUT /api/budgets/total", s.requireAuth(s.handleSetTotalBudget))
	mux.HandleFunc("PUT /api/budgets/{category}", s.requireAuth(s.handleSetCategoryBudget))

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/trend", s.handleTrend)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           log.Middleware(opts.Logger)(s.withSecurity(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// withSecurity adds security headers and rate limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)

		if detectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldClientIP, extractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			clientIP := extractClientIP(r)
			if !s.rateLimiter.allow(clientIP) {
				log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
				ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").
					Header("Retry-After", "60").
					Write(w)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects the request unless someone is logged in.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.tracker.IsAuthenticated() {
			UnauthorizedError("login required").Write(w)
			return
		}
		next(w, r)
	}
}

// Shutdown stops background routines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := s.tracker.LastPersistError(); err != nil {
		status = "degraded"
	}
	body := map[string]any{
		"status":   status,
		"revision": s.tracker.Revision(),
	}
	if s.storage != nil {
		st, err := s.storageHealth(r.Context())
		if err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Storage status unavailable", log.FieldError, err)
		}
		if err != nil || st.Dirty {
			body["status"] = "degraded"
		}
		body["storage"] = st
	}
	NewJSONResponse().Data(body).Write(w)
}

type storageHealthView struct {
	SchemaVersion uint       `json:"schemaVersion"`
	Dirty         bool       `json:"dirty"`
	LastWrite     *time.Time `json:"lastWrite,omitempty"`
}

func (s *Server) storageHealth(ctx context.Context) (storageHealthView, error) {
	var v storageHealthView
	version, dirty, err := s.storage.SchemaVersion()
	if err != nil {
		return v, err
	}
	v.SchemaVersion, v.Dirty = version, dirty
	at, ok, err := s.storage.LastWrite(ctx)
	if err != nil {
		return v, err
	}
	if ok {
		at = at.UTC()
		v.LastWrite = &at
	}
	return v, nil
}
