// Package api exposes the banking agent over HTTP: the chat session
// transport, the banking REST endpoints, the voice pass-through and the
// websocket event stream.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nimantha97/bank-voice-agent/agent"
	"github.com/Nimantha97/bank-voice-agent/llm"
	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/resilience"
	"github.com/Nimantha97/bank-voice-agent/store"
	"github.com/Nimantha97/bank-voice-agent/websocket"
)

// Server holds the HTTP surface and its dependencies.
type Server struct {
	agent    *agent.Agent
	sessions *agent.SessionStore
	store    store.Store
	audio    *llm.AudioClient
	hub      *websocket.Hub
	breaker  *resilience.CircuitBreaker
	log      *logger.Logger
}

// NewServer wires the HTTP surface. audio may be nil when no Groq key is
// configured; the voice endpoints then answer 503.
func NewServer(a *agent.Agent, sessions *agent.SessionStore, s store.Store, audio *llm.AudioClient, hub *websocket.Hub) *Server {
	return &Server{
		agent:    a,
		sessions: sessions,
		store:    s,
		audio:    audio,
		hub:      hub,
		breaker:  resilience.NewCircuitBreaker(5, 30*time.Second),
		log:      logger.Get().WithField("component", "api"),
	}
}

// Routes builds the full route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("POST /api/banking/verify", s.handleVerify)
	mux.HandleFunc("GET /api/banking/balance/{id}", s.handleBalance)
	mux.HandleFunc("GET /api/banking/transactions/{id}", s.handleTransactions)
	mux.HandleFunc("GET /api/banking/cards/{id}", s.handleCards)
	mux.HandleFunc("POST /api/banking/block-card", s.handleBlockCard)
	mux.HandleFunc("PUT /api/banking/address/{id}", s.handleUpdateAddress)
	mux.HandleFunc("GET /api/banking/audit-log", s.handleAuditLog)

	mux.HandleFunc("POST /api/voice/transcribe", s.handleTranscribe)
	mux.HandleFunc("POST /api/voice/synthesize", s.handleSynthesize)
	mux.HandleFunc("POST /api/voice/chat", s.handleVoiceChat)
	mux.HandleFunc("GET /api/voice/health", s.handleVoiceHealth)

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.hub.Handler())
	}

	return s.withCORS(s.withLogging(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "bank-voice-agent",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// withLogging logs one line per request with method, path and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Error("response encode failed", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
