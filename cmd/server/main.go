// Command server runs the Bank ABC conversational banking agent: chat and
// banking REST endpoints, Groq voice pass-through and a websocket event
// stream.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nimantha97/bank-voice-agent/agent"
	"github.com/Nimantha97/bank-voice-agent/api"
	"github.com/Nimantha97/bank-voice-agent/config"
	"github.com/Nimantha97/bank-voice-agent/llm"
	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/observe"
	"github.com/Nimantha97/bank-voice-agent/store"
	"github.com/Nimantha97/bank-voice-agent/websocket"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Error("server exited", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load env config: %w", err)
	}
	if fc, err := config.LoadFile(os.Getenv("APP_CONFIG")); err == nil {
		cfg.Apply(fc)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.Get()
	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.SetComponent("server")

	fileStore, err := store.OpenFileStore(cfg.CustomersFile, cfg.TransactionsFile)
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	limiter := store.NewRateLimiter(cfg.RateLimitMaxCalls, cfg.RateLimitWindow)
	dataStore := store.WithMiddleware(fileStore, limiter)

	chatClient, err := llm.NewFromEnv()
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			return fmt.Errorf("init llm client: %w", err)
		}
		log.Warn("no LLM key configured; intent classification disabled")
		chatClient = nil
	}

	hub := websocket.NewHub()
	go hub.Run()

	bankAgent := agent.New(dataStore, chatClient, observe.NewLogSink(), observe.NewHubSink(hub))
	sessions := agent.NewSessionStore()

	var audio *llm.AudioClient
	if cfg.GroqAPIKey != "" {
		audio = llm.NewAudioClient(cfg.GroqAPIKey, cfg.LLMTimeout)
	}

	srv := api.NewServer(bankAgent, sessions, dataStore, audio, hub)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on :%d (env=%s)", cfg.Port, cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
