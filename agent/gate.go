package agent

import "github.com/Nimantha97/bank-voice-agent/types"

// RequiresVerification reports whether a flow must be gated behind identity
// verification for the given session state. Only the two data-bearing flows
// ever require it; the four simple flows never touch account data.
func RequiresVerification(flow string, verified bool) bool {
	if verified {
		return false
	}
	return flow == types.FlowCardATMIssues || flow == types.FlowAccountServicing
}

// gatedResult builds the verification demand for a flow. It must carry no
// account data and no action: verification gates, it does not annotate.
func gatedResult(flow string) *types.FlowResult {
	var topic string
	switch flow {
	case types.FlowCardATMIssues:
		topic = "card issues"
	case types.FlowAccountServicing:
		topic = "account servicing"
	default:
		topic = "that"
	}
	return &types.FlowResult{
		Response:             "I can help with " + topic + ". First, I need to verify your identity. Please provide your Customer ID and PIN.",
		Flow:                 flow,
		RequiresVerification: true,
	}
}
