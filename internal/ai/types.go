package ai

import (
	"context"
	"errors"
)

// Input is one user turn in transfer-safe encoding. Text may be empty only
// when image or audio data is present.
type Input struct {
	Text     string
	ImageB64 string
	AudioB64 string
}

func (in Input) Empty() bool {
	return in.Text == "" && in.ImageB64 == "" && in.AudioB64 == ""
}

// EmotionAnalysis is produced once per assistant reply.
type EmotionAnalysis struct {
	DetectedEmotion string  `json:"detected_emotion"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// NovaResponse is the normalized reply shape regardless of which backend
// served the request.
type NovaResponse struct {
	Response string          `json:"response"`
	Analysis EmotionAnalysis `json:"analysis"`
}

// Provider turns one multimodal input into a NovaResponse.
type Provider interface {
	Analyze(ctx context.Context, in Input) (NovaResponse, error)
}

var (
	ErrEmptyInput = errors.New("ai: empty input")

	// ErrAPIKeyMissing is returned before any network call is attempted.
	ErrAPIKeyMissing = errors.New("ai: api key is missing")

	// ErrAllPathsFailed marks a dispatch where both the primary backend and
	// the cloud fallback failed. The accompanying NovaResponse is the
	// synthesized apology and must not be treated as a real analysis.
	ErrAllPathsFailed = errors.New("ai: primary and fallback both failed")
)
