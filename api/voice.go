package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nimantha97/bank-voice-agent/agent"
	"github.com/Nimantha97/bank-voice-agent/llm"
	"github.com/Nimantha97/bank-voice-agent/resilience"
	"github.com/Nimantha97/bank-voice-agent/types"
)

const maxAudioUpload = 10 << 20 // 10 MiB

// Voice endpoints pass audio through Groq. All upstream calls go through
// the circuit breaker so a flapping audio API cannot pile up requests.

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.audio == nil {
		writeError(w, http.StatusServiceUnavailable, "voice support is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio file")
		return
	}

	var text string
	err = s.breaker.Execute(func() error {
		var terr error
		text, terr = s.audio.Transcribe(r.Context(), header.Filename, audio)
		return terr
	})
	if err != nil {
		s.writeUpstreamError(w, "transcription failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if s.audio == nil {
		writeError(w, http.StatusServiceUnavailable, "voice support is not configured")
		return
	}

	var req struct {
		Text  string `json:"text"`
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Text) > 4096 {
		writeError(w, http.StatusBadRequest, "text too long (max 4096 chars)")
		return
	}

	var audio []byte
	err := s.breaker.Execute(func() error {
		var serr error
		audio, serr = s.audio.Synthesize(r.Context(), req.Text, req.Voice)
		return serr
	})
	if err != nil {
		s.writeUpstreamError(w, "speech synthesis failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// handleVoiceChat transcribes an audio turn, runs it through the agent and
// returns both the text reply and its spoken form.
func (s *Server) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	if s.audio == nil {
		writeError(w, http.StatusServiceUnavailable, "voice support is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio file")
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	voice := r.FormValue("voice")
	session := s.sessions.Get(sessionID)

	var message string
	err = s.breaker.Execute(func() error {
		var terr error
		message, terr = s.audio.Transcribe(r.Context(), header.Filename, audio)
		return terr
	})
	if err != nil {
		s.writeUpstreamError(w, "transcription failed", err)
		return
	}
	if message == "" {
		writeError(w, http.StatusBadRequest, "could not understand the audio")
		return
	}

	result, err := s.agent.ProcessMessage(r.Context(), sessionID, message, session.CustomerID, session.Verified)
	if err != nil {
		var cerr *agent.ClassificationError
		if errors.As(err, &cerr) {
			result = &types.FlowResult{
				Response: "I'm having trouble understanding your request right now. Please try again.",
			}
		} else {
			s.log.Error("message processing failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	// Synthesis is best-effort with one retry; the text reply always ships.
	var speech []byte
	synthErr := resilience.RetryWithConfig(r.Context(), &resilience.RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		RetryIf:      resilience.IsRetryable,
	}, func() error {
		return s.breaker.Execute(func() error {
			var serr error
			speech, serr = s.audio.Synthesize(r.Context(), result.Response, voice)
			return serr
		})
	})
	if synthErr != nil {
		s.log.Error("speech synthesis failed", synthErr)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcript":            message,
		"response":              result.Response,
		"session_id":            sessionID,
		"requires_verification": result.RequiresVerification,
		"flow":                  result.Flow,
		"audio_base64":          speech, // encoding/json emits []byte as base64
	})
}

func (s *Server) handleVoiceHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"configured":    s.audio != nil,
		"breaker_state": s.breaker.GetState().String(),
		"voices":        llm.ValidVoices,
	}
	code := http.StatusOK
	if s.audio == nil {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		writeError(w, http.StatusServiceUnavailable, "voice service is temporarily unavailable")
		return
	}
	s.log.Error(message, err)
	writeError(w, http.StatusBadGateway, message)
}
