package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/openalpha/yield-vault/api/handlers"
	"github.com/openalpha/yield-vault/api/middleware"
	"github.com/openalpha/yield-vault/api/types"
	"github.com/openalpha/yield-vault/api/websocket"
	"github.com/openalpha/yield-vault/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	logger     log.Logger

	service      *Service
	vaultHandler *handlers.VaultHandler

	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Collector
	scheduler   *cron.Cron

	router *mux.Router
}

// NewServer creates a new API server around service. The service's events
// are published on the WebSocket feed.
func NewServer(config *Config, service *Service, collector *metrics.Collector, logger log.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if collector == nil {
		collector = metrics.GetCollector()
	}

	s := &Server{
		config:       config,
		logger:       logger.With("module", "api"),
		service:      service,
		vaultHandler: handlers.NewVaultHandler(service),
		rateLimiter:  middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
		metrics:      collector,
		wsServer:     websocket.NewServer(websocket.DefaultServerConfig(), collector, logger),
		scheduler:    cron.New(),
	}
	s.rateLimiter.OnReject = collector.RecordRateLimitHit
	service.publisher = s.wsServer
	service.metrics = collector

	if _, err := s.scheduler.AddFunc(config.SnapshotSchedule, s.snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", config.SnapshotSchedule, err)
	}

	s.router = s.routes()
	return s, nil
}

// routes builds the router: CORS -> RequestID -> Metrics -> RateLimit -> Handler
func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware, middleware.RequestID, middleware.Metrics(s.metrics, s.logger))
	if !s.config.DisableRateLimit {
		router.Use(middleware.RateLimitMiddleware(s.rateLimiter))
	}
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.Handle("/ws", s.wsServer).Methods(http.MethodGet)
	router.HandleFunc("/ws/stats", s.wsServer.HandleStats).Methods(http.MethodGet)

	writes := router.NewRoute().Subrouter()
	if !s.config.DisableRateLimit {
		writes.Use(middleware.WriteRateLimitMiddleware(s.rateLimiter))
	}
	s.vaultHandler.RegisterRoutes(router, writes)

	if s.config.DevMode {
		router.HandleFunc("/v1/dev/fund", s.handleFund).Methods(http.MethodPost)
	}
	return router
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.wsServer.Run()
	s.scheduler.Start()

	s.logger.Info("API server starting",
		"addr", addr,
		"dev_mode", s.config.DevMode,
		"rate_limit", !s.config.DisableRateLimit,
		"snapshot_schedule", s.config.SnapshotSchedule,
	)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	<-s.scheduler.Stop().Done()
	s.wsServer.Stop()
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// snapshot refreshes the ledger gauges
func (s *Server) snapshot() {
	if err := s.service.Snapshot(); err != nil {
		s.logger.Error("ledger snapshot failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.State(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"timestamp":    time.Now().Unix(),
		"vault_status": state.Status,
		"dev_mode":     s.config.DevMode,
		"ws_clients":   s.wsServer.GetActiveConnections(),
	})
}

// handleFund mints test funds on the in-memory bank
func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var req types.FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.service.Fund(req.Address, req.Amount); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address": req.Address,
		"amount":  req.Amount,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.CallerHeader+", "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
