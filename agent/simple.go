package agent

import "github.com/Nimantha97/bank-voice-agent/types"

// Advisory replies for the four flows that never touch account data.
var simpleFlowResponses = map[string]string{
	types.FlowAccountOpening:    "I can help you open a new account. You'll need to provide documents and verify eligibility. Would you like to schedule an appointment?",
	types.FlowDigitalSupport:    "I can help with digital banking issues like login problems, OTP issues, or app crashes. What specific problem are you experiencing?",
	types.FlowTransfersPayments: "I can help with transfers and bill payments. Are you having issues with a pending transfer or need to add a beneficiary?",
	types.FlowAccountClosure:    "I understand you want to close your account. Before we proceed, may I ask why you're considering this? We might be able to help resolve any concerns.",
}

// handleSimpleFlow returns the canned advisory reply for a flow; unknown
// flows get a generic prompt for more detail.
func handleSimpleFlow(flow string) *types.FlowResult {
	response, ok := simpleFlowResponses[flow]
	if !ok {
		response = "I can help you with that. Please provide more details."
	}
	return &types.FlowResult{Response: response, Flow: flow}
}
