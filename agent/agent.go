// Package agent implements the conversational banking core: conversational
// short-circuits, LLM intent classification, the identity verification gate
// and the per-flow handlers.
package agent

import (
	"context"
	"fmt"

	"github.com/Nimantha97/bank-voice-agent/llm"
	"github.com/Nimantha97/bank-voice-agent/logger"
	"github.com/Nimantha97/bank-voice-agent/observe"
	"github.com/Nimantha97/bank-voice-agent/store"
	"github.com/Nimantha97/bank-voice-agent/types"
)

// Agent routes one message at a time through the fixed pipeline:
// conversational match, classification, verification gate, flow handler.
// It holds no per-conversation state; verification travels with the caller.
type Agent struct {
	store      store.Store
	classifier *Classifier
	sinks      []observe.Sink
	log        *logger.Logger
}

// New creates an agent over the given store and chat client.
func New(s store.Store, client llm.Client, sinks ...observe.Sink) *Agent {
	return &Agent{
		store:      s,
		classifier: NewClassifier(client),
		sinks:      sinks,
		log:        logger.Get().WithField("component", "agent"),
	}
}

// ProcessMessage resolves one conversation turn. customerID and verified
// describe the caller's session; the agent never mutates session state
// itself. A ClassificationError is returned as-is so the transport can
// answer with a recoverable error; every other failure mode resolves to a
// user-facing FlowResult.
func (a *Agent) ProcessMessage(ctx context.Context, sessionID, message, customerID string, verified bool) (result *types.FlowResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("session_id", sessionID).Error("message handler panicked", fmt.Errorf("%v", r))
			result = &types.FlowResult{
				Response: "I'm experiencing technical difficulties. Please try again or contact support.",
			}
			err = nil
		}
	}()

	if result := MatchConversational(message); result != nil {
		a.notify(sessionID, customerID, result)
		return result, nil
	}

	flow, err := a.classifier.Classify(ctx, message)
	if err != nil {
		a.log.WithField("session_id", sessionID).Error("classification failed", err)
		return nil, err
	}
	a.log.WithFields(map[string]any{"session_id": sessionID, "flow": flow}).Debug("intent classified")

	if RequiresVerification(flow, verified) {
		result := gatedResult(flow)
		a.notify(sessionID, customerID, result)
		return result, nil
	}

	switch flow {
	case types.FlowCardATMIssues:
		result = a.handleCardATMIssues(ctx, message, customerID)
	case types.FlowAccountServicing:
		result = a.handleAccountServicing(ctx, message, customerID)
	default:
		result = handleSimpleFlow(flow)
	}

	a.notify(sessionID, customerID, result)
	return result, nil
}

func (a *Agent) notify(sessionID, customerID string, result *types.FlowResult) {
	event := types.NewEvent("message_processed")
	event.SessionID = sessionID
	event.CustomerID = customerID
	event.Flow = result.Flow
	event.Action = result.Action
	if types.IsBankingFlow(result.Flow) {
		event.Intent = result.Flow
	}
	observe.Notify(event, a.sinks...)
}
