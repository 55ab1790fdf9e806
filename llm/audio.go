// Package llm - Groq audio pass-through (speech-to-text and text-to-speech).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// AudioClient calls Groq's Whisper transcription and Orpheus speech APIs.
// Isolated from the chat client so voice failures cannot affect routing.
type AudioClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	TranscribeModel string
	SpeechModel     string
}

// Valid Orpheus voices; unknown names fall back to the first.
var ValidVoices = []string{"autumn", "diana", "hannah", "austin", "daniel", "troy"}

// NewAudioClient creates a Groq audio client.
func NewAudioClient(apiKey string, timeout time.Duration) *AudioClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AudioClient{
		BaseURL:         defaultGroqBaseURL,
		APIKey:          apiKey,
		HTTP:            newHTTPClient(timeout),
		TranscribeModel: "whisper-large-v3-turbo",
		SpeechModel:     "canopylabs/orpheus-v1-english",
	}
}

// Transcribe uploads audio bytes and returns the transcribed text.
func (c *AudioClient) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename == "" {
		filename = "audio.wav"
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("transcribe: form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("transcribe: write audio: %w", err)
	}
	_ = mw.WriteField("model", c.TranscribeModel)
	_ = mw.WriteField("language", "en")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("transcribe: close form: %w", err)
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("transcribe: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe: http request: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("transcribe: %d %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("transcribe: decode failed: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

// Synthesize converts text to WAV audio with the given voice.
func (c *AudioClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("synthesize: text cannot be empty")
	}
	if len(text) > 4096 {
		return nil, fmt.Errorf("synthesize: text too long (max 4096 chars)")
	}

	selected := ValidVoices[0]
	for _, v := range ValidVoices {
		if v == voice {
			selected = v
			break
		}
	}

	reqBody := map[string]string{
		"model":           c.SpeechModel,
		"voice":           selected,
		"input":           text,
		"response_format": "wav",
	}
	b, _ := json.Marshal(reqBody)

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("synthesize: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: http request: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("synthesize: %d %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
