package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultReasoning = "Based on multimodal fusion analysis."

// localConfidence is fixed because the local backend reports a dominant
// emotion string without a score.
const localConfidence = 0.85

// LocalProvider talks to the local multimodal inference backend.
type LocalProvider struct {
	BaseURL string
	Client  *http.Client
}

type localChatReq struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
	Image   string `json:"image,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

type localChatResp struct {
	Response         string   `json:"response"`
	DominantEmotions string   `json:"dominant_emotions"`
	SuggestedActions []string `json:"suggested_actions"`
}

func NewLocalProvider(baseURL string, timeout time.Duration) *LocalProvider {
	if baseURL == "" {
		baseURL = "http://localhost:8001"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LocalProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (p *LocalProvider) Analyze(ctx context.Context, in Input) (NovaResponse, error) {
	if p.Client == nil {
		return NovaResponse{}, errors.New("local: http client is nil")
	}

	reqBody := localChatReq{
		Text:    in.Text,
		Emotion: "neutral", // client-side placeholder, backend refines it
		Image:   in.ImageB64,
		Audio:   in.AudioB64,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return NovaResponse{}, err
	}

	url := fmt.Sprintf("%s/chat", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return NovaResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return NovaResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NovaResponse{}, fmt.Errorf("local: status %d", resp.StatusCode)
	}

	var decoded localChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return NovaResponse{}, err
	}

	detected := decoded.DominantEmotions
	if detected == "" {
		detected = "Neutral"
	}
	reasoning := defaultReasoning
	if len(decoded.SuggestedActions) > 0 {
		reasoning = strings.Join(decoded.SuggestedActions, ". ")
	}

	return NovaResponse{
		Response: decoded.Response,
		Analysis: EmotionAnalysis{
			DetectedEmotion: detected,
			Confidence:      localConfidence,
			Reasoning:       reasoning,
		},
	}, nil
}
