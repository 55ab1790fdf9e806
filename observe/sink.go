// Package observe delivers classification and outcome events to pluggable
// sinks. Delivery is best-effort: a failing sink is logged and never blocks
// or aborts a conversation turn.
package observe

import (
	"encoding/json"

	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// Sink receives agent events.
type Sink interface {
	Emit(event *types.Event) error
}

// Notify fans an event out to all sinks, swallowing failures.
func Notify(event *types.Event, sinks ...Sink) {
	for _, s := range sinks {
		if s == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Warnf("observability sink panicked: %v", r)
				}
			}()
			if err := s.Emit(event); err != nil {
				logger.Get().WithField("event", event.Name).Error("observability sink failed", err)
			}
		}()
	}
}

// LogSink writes events to the structured logger.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink backed by the global logger.
func NewLogSink() *LogSink {
	return &LogSink{log: logger.Get().WithField("component", "observe")}
}

// Emit implements Sink.
func (s *LogSink) Emit(event *types.Event) error {
	s.log.WithFields(map[string]any{
		"event":       event.Name,
		"session_id":  event.SessionID,
		"customer_id": event.CustomerID,
		"intent":      event.Intent,
		"flow":        event.Flow,
		"action":      event.Action,
	}).Info("agent event")
	return nil
}

// Broadcaster is the subset of the websocket hub used for event fan-out.
type Broadcaster interface {
	Broadcast(message []byte)
}

// HubSink streams events to connected websocket clients.
type HubSink struct {
	hub Broadcaster
}

// NewHubSink creates a sink that broadcasts JSON events over a hub.
func NewHubSink(hub Broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

// Emit implements Sink.
func (s *HubSink) Emit(event *types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.hub.Broadcast(data)
	return nil
}
