package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const novaSystemInstruction = `
You are NOVA, a highly advanced Emotional AI.
You have been trained on the following datasets to specialize in human empathy and emotion detection:
1. **EmpatheticDialogues**: You use this to form your conversational style. You must always be supportive, kind, and an active listener.
2. **GoEmotions**: You use this to analyze the user's text and detect fine-grained emotions.
3. **FER2013/RAVDESS**: You use these principles to analyze visual expressions and voice tone when provided with images or audio.

**Your Goal:**
Receive input from the user (text, image, or audio).
Analyze the input to determine the user's emotional state.
Reply with a deeply empathetic response that validates the user's feelings.

**Response Format:**
You must return a JSON object with the following schema:
- detected_emotion (string): The primary emotion detected (e.g., Joy, Sadness, Anger, Anxiety, Neutral).
- confidence (number): A value between 0 and 1 indicating how sure you are of this emotion.
- reasoning (string): A brief internal thought explaining why you detected this emotion (e.g., "User's facial expression shows frowning and text indicates loss").
- response (string): Your actual conversational reply to the user.
`

// contentGenerator is the slice of *genai.Models we call. Kept as an
// interface so tests can record calls without a live client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider is the cloud path. It asks for strict JSON output so the
// reply parses directly into a NovaResponse.
type GeminiProvider struct {
	models contentGenerator
	model  string
}

// NewGeminiProvider fails fast when the API key is absent; no network call
// is ever attempted without a credential.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyMissing
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{models: client.Models, model: model}, nil
}

func chatResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"detected_emotion": {Type: genai.TypeString},
			"confidence":       {Type: genai.TypeNumber},
			"reasoning":        {Type: genai.TypeString},
			"response":         {Type: genai.TypeString},
		},
		Required: []string{"detected_emotion", "confidence", "reasoning", "response"},
	}
}

// buildParts orders the request parts image, audio, then text. An empty text
// still gets a prompt so the model knows what to do with media-only input.
func buildParts(in Input) ([]*genai.Part, error) {
	var parts []*genai.Part

	if in.ImageB64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.ImageB64)
		if err != nil {
			return nil, fmt.Errorf("gemini: decode image: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data},
		})
	}

	if in.AudioB64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.AudioB64)
		if err != nil {
			return nil, fmt.Errorf("gemini: decode audio: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "audio/wav", Data: data},
		})
	}

	text := in.Text
	if text == "" {
		if in.ImageB64 != "" {
			text = "Analyze this image for emotion."
		} else {
			text = "Analyze this audio for emotion."
		}
	}
	parts = append(parts, &genai.Part{Text: text})

	return parts, nil
}

type geminiChatWire struct {
	DetectedEmotion string  `json:"detected_emotion"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
	Response        string  `json:"response"`
}

func (p *GeminiProvider) Analyze(ctx context.Context, in Input) (NovaResponse, error) {
	if in.Empty() {
		return NovaResponse{}, ErrEmptyInput
	}

	parts, err := buildParts(in)
	if err != nil {
		return NovaResponse{}, err
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: novaSystemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    chatResponseSchema(),
	}

	resp, err := p.models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return NovaResponse{}, fmt.Errorf("gemini: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return NovaResponse{}, err
	}

	var wire geminiChatWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return NovaResponse{}, fmt.Errorf("gemini: parse response: %w", err)
	}

	return NovaResponse{
		Response: wire.Response,
		Analysis: EmotionAnalysis{
			DetectedEmotion: wire.DetectedEmotion,
			Confidence:      wire.Confidence,
			Reasoning:       wire.Reasoning,
		},
	}, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini: no content in response")
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("gemini: empty response text")
	}
	return text, nil
}
