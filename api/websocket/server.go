package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/openalpha/yield-vault/metrics"
)

// Server accepts WebSocket connections for the ledger event feed
type Server struct {
	hub    *Hub
	config *ServerConfig
	logger log.Logger

	connections      map[string]*Client
	connectionsMu    sync.RWMutex
	connectionsPerIP map[string]int
	ipMu             sync.Mutex

	// Stats
	totalConnections int64
	totalEvents      int64
	statsMu          sync.RWMutex
}

// ServerConfig contains server configuration
type ServerConfig struct {
	MaxConnPerIP int
	HubConfig    *HubConfig
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		MaxConnPerIP: 10,
		HubConfig:    DefaultHubConfig(),
	}
}

// NewServer creates a new WebSocket server. c may be nil.
func NewServer(config *ServerConfig, c *metrics.Collector, logger log.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Server{
		hub:              NewHub(config.HubConfig, c),
		config:           config,
		logger:           logger.With("module", "websocket"),
		connections:      make(map[string]*Client),
		connectionsPerIP: make(map[string]int),
	}
}

// Run starts the hub loop. It blocks until Stop.
func (s *Server) Run() {
	s.hub.Run()
}

// Stop disconnects every client and ends Run
func (s *Server) Stop() {
	s.hub.Stop()
}

// ServeHTTP upgrades the request to a WebSocket connection
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)

	if !s.reserveIP(ip) {
		http.Error(w, "Too many connections from this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.releaseIP(ip)
		s.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, uuid.New().String(), "", ip)
	client.logger = s.logger
	client.onClose = s.unregisterConnection

	s.connectionsMu.Lock()
	s.connections[client.GetID()] = client
	s.connectionsMu.Unlock()

	select {
	case s.hub.register <- client:
	case <-s.hub.stop:
		conn.Close()
		s.unregisterConnection(client)
		return
	}

	s.statsMu.Lock()
	s.totalConnections++
	s.statsMu.Unlock()

	go client.writePump()
	go client.readPump()
}

// PublishEvents forwards vault events to subscribers
func (s *Server) PublishEvents(events sdk.Events) {
	for _, e := range events {
		if !strings.HasPrefix(e.Type, "vault_") {
			continue
		}
		msg := &EventMessage{
			Type:       e.Type,
			Attributes: make(map[string]string, len(e.Attributes)),
		}
		for _, attr := range e.Attributes {
			msg.Attributes[attr.Key] = attr.Value
		}
		s.hub.BroadcastEvent(msg)

		s.statsMu.Lock()
		s.totalEvents++
		s.statsMu.Unlock()
	}
}

// HandleStats reports connection statistics
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	s.statsMu.RLock()
	stats := map[string]interface{}{
		"total_connections":  s.totalConnections,
		"active_connections": s.GetActiveConnections(),
		"total_events":       s.totalEvents,
		"channels":           s.hub.GetChannelCount(),
	}
	s.statsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

func (s *Server) unregisterConnection(client *Client) {
	s.connectionsMu.Lock()
	delete(s.connections, client.GetID())
	s.connectionsMu.Unlock()

	s.releaseIP(client.GetIP())
}

// reserveIP counts a new connection against the IP limit
func (s *Server) reserveIP(ip string) bool {
	s.ipMu.Lock()
	defer s.ipMu.Unlock()

	if s.connectionsPerIP[ip] >= s.config.MaxConnPerIP {
		return false
	}
	s.connectionsPerIP[ip]++
	return true
}

func (s *Server) releaseIP(ip string) {
	s.ipMu.Lock()
	defer s.ipMu.Unlock()

	s.connectionsPerIP[ip]--
	if s.connectionsPerIP[ip] <= 0 {
		delete(s.connectionsPerIP, ip)
	}
}

// GetHub returns the hub
func (s *Server) GetHub() *Hub {
	return s.hub
}

// GetConnection returns a client by ID
func (s *Server) GetConnection(clientID string) *Client {
	s.connectionsMu.RLock()
	defer s.connectionsMu.RUnlock()
	return s.connections[clientID]
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.connectionsMu.RLock()
	defer s.connectionsMu.RUnlock()
	return len(s.connections)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
