package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Nimantha97/bank-voice-agent/agent"
	"github.com/Nimantha97/bank-voice-agent/store"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// handleChat runs one conversation turn. Credentials in the request body
// verify the session before the message is processed; verification state
// then lives server-side for the rest of the session.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := s.sessions.Get(sessionID)
	log := s.log.WithField("session_id", sessionID)

	if !session.Verified && req.CustomerID != "" && req.PIN != "" {
		customerID := store.SanitizeInput(strings.TrimSpace(req.CustomerID))
		if !store.ValidateCustomerID(customerID) || !store.ValidatePIN(req.PIN) {
			writeJSON(w, http.StatusOK, types.ChatResponse{
				Response:             "Invalid credentials. Please try again.",
				SessionID:            sessionID,
				RequiresVerification: true,
			})
			return
		}

		if _, err := s.store.VerifyIdentity(r.Context(), customerID, req.PIN); err != nil {
			log.Warn("identity verification failed")
			writeJSON(w, http.StatusOK, types.ChatResponse{
				Response:             "Invalid credentials. Please try again.",
				SessionID:            sessionID,
				RequiresVerification: true,
			})
			return
		}

		s.sessions.MarkVerified(sessionID, customerID)

		// The verification turn answers on its own; the next turn
		// carries the actual request.
		writeJSON(w, http.StatusOK, types.ChatResponse{
			Response:  "Identity verified successfully. How can I help you today?",
			SessionID: sessionID,
		})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.agent.ProcessMessage(r.Context(), sessionID, message, session.CustomerID, session.Verified)
	if err != nil {
		var cerr *agent.ClassificationError
		if errors.As(err, &cerr) {
			writeJSON(w, http.StatusOK, types.ChatResponse{
				Response:  "I'm having trouble understanding your request right now. Please try again.",
				SessionID: sessionID,
				Error:     "classification_failed",
			})
			return
		}
		log.Error("message processing failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{
		Response:             result.Response,
		SessionID:            sessionID,
		RequiresVerification: result.RequiresVerification,
		Flow:                 result.Flow,
	})
}
