package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nimantha97/bank-voice-agent/store"
)

// Banking REST endpoints. These mirror the agent's data operations for
// non-conversational clients; the same store middleware (rate limits,
// audit) applies.

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
		PIN        string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customerID := store.SanitizeInput(strings.TrimSpace(req.CustomerID))
	if !store.ValidateCustomerID(customerID) || !store.ValidatePIN(req.PIN) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	customer, err := s.store.VerifyIdentity(r.Context(), customerID, req.PIN)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"verified":    true,
		"customer_id": customer.CustomerID,
		"name":        customer.Name,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	balance, err := s.store.GetAccountBalance(r.Context(), customerID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	count := 5
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	txns, err := s.store.GetRecentTransactions(r.Context(), customerID, count)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": customerID, "transactions": txns})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	cards, err := s.store.GetCustomerCards(r.Context(), customerID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": customerID, "cards": cards})
}

func (s *Server) handleBlockCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CardID) == "" {
		writeError(w, http.StatusBadRequest, "card_id is required")
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Customer request"
	}

	message, err := s.store.BlockCard(r.Context(), req.CardID, reason)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	var req struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	address := store.SanitizeInput(strings.TrimSpace(req.Address))
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	message, err := s.store.UpdateAddress(r.Context(), customerID, address)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": s.store.AuditLog()})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	default:
		s.log.Error("store operation failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
