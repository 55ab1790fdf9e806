// Package llm provides a small, pluggable chat client used for banking
// intent classification, with env-driven provider selection.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrDisabled is returned when no usable provider key is configured.
var ErrDisabled = errors.New("llm client disabled (missing key)")

// Client is the minimal interface used by the agent core.
type Client interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Options tune a single completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// GroqClient is an OpenAI-compatible HTTP client pointed at Groq.
type GroqClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Opts    Options
	HTTP    *http.Client
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResp struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqClient creates an OpenAI-compatible client against Groq.
func NewGroqClient(apiKey, model string, timeout time.Duration) *GroqClient {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	if timeout == 0 {
		timeout = 12 * time.Second
	}
	return &GroqClient{
		BaseURL: defaultGroqBaseURL,
		APIKey:  apiKey,
		Model:   model,
		Opts:    Options{Temperature: 0.1, MaxTokens: 50},
		HTTP:    newHTTPClient(timeout),
	}
}

// Chat sends a synchronous chat.completions request.
func (c *GroqClient) Chat(ctx context.Context, system, user string) (string, error) {
	reqBody := chatReq{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		MaxTokens:   c.Opts.MaxTokens,
		Temperature: c.Opts.Temperature,
	}
	b, _ := json.Marshal(reqBody)

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("groq: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.APIKey) != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("groq: http request: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("groq: %d %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	var out chatResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("groq: decode failed: %w; raw=%s", err, strings.TrimSpace(string(body)))
	}
	if out.Error != nil {
		return "", errors.New(strings.TrimSpace(out.Error.Message))
	}
	if len(out.Choices) == 0 {
		return "", errors.New("groq: empty choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// NewFromEnv creates a client from environment configuration.
// Provider precedence: LLM_PROVIDER of groq | gemini | anthropic.
// Key precedence for groq: GROQ_API_KEY > LLM_API_KEY.
func NewFromEnv() (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "groq"
	}

	timeout := 12 * time.Second
	if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))

	switch provider {
	case "groq", "openai":
		key := firstNonEmpty(os.Getenv("GROQ_API_KEY"), os.Getenv("LLM_API_KEY"))
		if key == "" {
			return nil, ErrDisabled
		}
		c := NewGroqClient(key, model, timeout)
		if base := strings.TrimSpace(os.Getenv("LLM_BASE_URL")); base != "" {
			c.BaseURL = strings.TrimRight(base, "/")
		}
		return c, nil
	case "gemini", "googleai":
		key := firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			return nil, ErrDisabled
		}
		return NewGoogleAIClient(context.Background(), key, model)
	case "anthropic":
		key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
		if key == "" {
			return nil, ErrDisabled
		}
		return NewAnthropicClient(key, model, timeout), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
