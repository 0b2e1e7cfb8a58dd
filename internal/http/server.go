// Package http serves the JSON API: orders, transactions, invoices,
// settings lists and the derived monthly statement.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"undangan/internal/backend"
	"undangan/internal/cache"
	"undangan/internal/kv"
	"undangan/internal/ledger"
)

type Server struct {
	http.Server

	backend     *backend.Backend
	rateLimiter *rateLimiter

	// Derived statements are cached per scope and invalidated whenever
	// a partition changes, locally or through the kv watcher.
	statementCache *cache.LRU[ledger.Statement]

	logger       *slog.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call WatchInvalidate to pick up external store changes.
func NewServer(addr string, b *backend.Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		backend:        b,
		rateLimiter:    newRateLimiter(),
		statementCache: cache.NewLRU[ledger.Statement](100, 5*time.Minute),
		logger:         logger,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/orders", s.wrap(s.handleListOrders))
	mux.HandleFunc("POST /api/orders", s.wrap(s.handleAddOrder))
	mux.HandleFunc("PATCH /api/orders/{id}", s.wrap(s.handleEditOrder))
	mux.HandleFunc("DELETE /api/orders/{id}", s.wrap(s.handleDeleteOrder))

	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleAddTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("POST /api/transactions/{id}/toggle-paid", s.wrap(s.handleTogglePaid))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/invoices", s.wrap(s.handleListInvoices))
	mux.HandleFunc("GET /api/invoices/uninvoiced", s.wrap(s.handleUninvoiced))
	mux.HandleFunc("POST /api/invoices", s.wrap(s.handleGenerateInvoice))
	mux.HandleFunc("POST /api/invoices/{id}/pay", s.wrap(s.handlePayInvoice))

	mux.HandleFunc("GET /api/vendors", s.wrap(s.handleListVendors))
	mux.HandleFunc("POST /api/vendors", s.wrap(s.handleAddVendor))
	mux.HandleFunc("PUT /api/vendors/{id}", s.wrap(s.handleUpdateVendor))
	mux.HandleFunc("DELETE /api/vendors/{id}", s.wrap(s.handleDeleteVendor))

	mux.HandleFunc("GET /api/settings/{list}", s.wrap(s.handleListSettings))
	mux.HandleFunc("POST /api/settings/{list}", s.wrap(s.handleAddSetting))
	mux.HandleFunc("PUT /api/settings/{list}/{id}", s.wrap(s.handleUpdateSetting))
	mux.HandleFunc("DELETE /api/settings/{list}/{id}", s.wrap(s.handleDeleteSetting))

	mux.HandleFunc("GET /api/statement", s.wrap(s.handleStatement))

	return s
}

// WatchInvalidate drops cached statements when the kv store reports an
// external change. Returns immediately when the store cannot watch.
func (s *Server) WatchInvalidate(ctx context.Context) {
	watcher, ok := s.backend.Watcher()
	if !ok {
		s.logger.Info("Store does not support watching, cache relies on TTL only")
		return
	}
	events, err := watcher.Watch(ctx)
	if err != nil {
		s.logger.Warn("Failed to watch store, cache relies on TTL only", "error", err)
		return
	}
	go func() {
		for ev := range events {
			n := s.statementCache.DeletePrefix("")
			s.logger.Debug("Invalidated statement cache", "key", ev.Key, "dropped", n)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// wrap applies security headers, request tracing and rate limiting on
// mutating methods.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		clientIP := extractClientIP(r)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// invalidateStatements drops derived statements after a local mutation.
func (s *Server) invalidateStatements() {
	s.statementCache.DeletePrefix("")
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// settingsKey maps a URL list segment to its kv key.
func settingsKey(list string) (string, bool) {
	switch list {
	case "themes":
		return kv.KeyThemes, true
	case "packages":
		return kv.KeyPackages, true
	case "addons":
		return kv.KeyAddons, true
	case "work-statuses":
		return kv.KeyWorkStatuses, true
	default:
		return "", false
	}
}
