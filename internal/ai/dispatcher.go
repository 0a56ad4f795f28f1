package ai

import (
	"context"
	"log"
)

const apologyResponse = "I'm having trouble connecting to my emotional processing centers right now. Can we try again?"

// Apology is the synthesized reply used when every path fails. The zero
// confidence and "Confusion" label let callers distinguish it from a real
// analysis.
func Apology() NovaResponse {
	return NovaResponse{
		Response: apologyResponse,
		Analysis: EmotionAnalysis{
			DetectedEmotion: "Confusion",
			Confidence:      0,
			Reasoning:       "System Error",
		},
	}
}

// Dispatcher tries the local backend first and the cloud provider second.
// One attempt each, no retries. A nil fallback means the cloud path is
// disabled (for example when no API key is configured).
type Dispatcher struct {
	Primary  Provider
	Fallback Provider
}

func NewDispatcher(primary, fallback Provider) *Dispatcher {
	return &Dispatcher{Primary: primary, Fallback: fallback}
}

// Dispatch returns the normalized response. When both paths fail it returns
// the apology response together with ErrAllPathsFailed; the caller decides
// how to surface it (the chat service renders it as an assistant bubble
// without an analysis).
func (d *Dispatcher) Dispatch(ctx context.Context, in Input) (NovaResponse, error) {
	if in.Empty() {
		return Apology(), ErrEmptyInput
	}

	if d.Primary != nil {
		resp, err := d.Primary.Analyze(ctx, in)
		if err == nil {
			return resp, nil
		}
		log.Printf("[dispatch] local backend unavailable, falling back to cloud: %v", err)
	}

	if d.Fallback == nil {
		return Apology(), ErrAllPathsFailed
	}

	resp, err := d.Fallback.Analyze(ctx, in)
	if err != nil {
		log.Printf("[dispatch] cloud fallback failed: %v", err)
		return Apology(), ErrAllPathsFailed
	}
	return resp, nil
}
