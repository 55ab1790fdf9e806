package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

var llmEnvKeys = []string{
	"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "LLM_BASE_URL", "LLM_TIMEOUT",
	"GROQ_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
}

func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string, len(llmEnvKeys))
	for _, k := range llmEnvKeys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestNewFromEnvDefaultsToGroq(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("GROQ_API_KEY", "gsk-test")

	client, err := NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	gc, ok := client.(*GroqClient)
	if !ok {
		t.Fatalf("client type = %T, want *GroqClient", client)
	}
	if gc.Model != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", gc.Model)
	}
	if gc.Opts.Temperature != 0.1 || gc.Opts.MaxTokens != 50 {
		t.Errorf("opts = %+v", gc.Opts)
	}
}

func TestNewFromEnvMissingKey(t *testing.T) {
	withCleanEnv(t)

	if _, err := NewFromEnv(); !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestNewFromEnvUnknownProvider(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("LLM_PROVIDER", "cohere")

	if _, err := NewFromEnv(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewFromEnvAnthropic(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("LLM_PROVIDER", "anthropic")
	os.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	client, err := NewFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := client.(*AnthropicClient); !ok {
		t.Errorf("client type = %T, want *AnthropicClient", client)
	}
}

func TestGroqChat(t *testing.T) {
	var gotAuth string
	var gotReq chatReq
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(chatResp{
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: "  CARD_ATM_ISSUES \n"}}},
		})
	}))
	defer ts.Close()

	c := NewGroqClient("gsk-test", "", 0)
	c.BaseURL = ts.URL

	out, err := c.Chat(context.Background(), "classify this", "I lost my card")
	if err != nil {
		t.Fatal(err)
	}
	if out != "CARD_ATM_ISSUES" {
		t.Errorf("out = %q, want trimmed label", out)
	}
	if gotAuth != "Bearer gsk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 50 {
		t.Errorf("max_tokens = %d, want 50", gotReq.MaxTokens)
	}
}

func TestGroqChatUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewGroqClient("gsk-test", "", 0)
	c.BaseURL = ts.URL

	if _, err := c.Chat(context.Background(), "sys", "user"); err == nil {
		t.Error("expected error on non-2xx response")
	}
}

func TestSynthesizeInputValidation(t *testing.T) {
	ac := NewAudioClient("gsk-test", 0)

	if _, err := ac.Synthesize(context.Background(), "", "autumn"); err == nil {
		t.Error("empty text must be rejected before any network call")
	}

	long := make([]byte, 4097)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ac.Synthesize(context.Background(), string(long), "autumn"); err == nil {
		t.Error("text over 4096 chars must be rejected")
	}
}

func TestSynthesizeVoiceFallback(t *testing.T) {
	var gotVoice string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		gotVoice = req["voice"]
		w.Write([]byte("RIFF"))
	}))
	defer ts.Close()

	ac := NewAudioClient("gsk-test", 0)
	ac.BaseURL = ts.URL

	if _, err := ac.Synthesize(context.Background(), "hello", "not-a-voice"); err != nil {
		t.Fatal(err)
	}
	if gotVoice != ValidVoices[0] {
		t.Errorf("voice = %q, want fallback %q", gotVoice, ValidVoices[0])
	}

	if _, err := ac.Synthesize(context.Background(), "hello", "diana"); err != nil {
		t.Fatal(err)
	}
	if gotVoice != "diana" {
		t.Errorf("voice = %q, want diana", gotVoice)
	}
}
