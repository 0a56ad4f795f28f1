package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/novalabs/nova-backend/internal/ai"
	"github.com/novalabs/nova-backend/internal/session"
)

const analysisSystemInstruction = `
You are NOVA's Analytical Engine (SLM - Specialized Language Model).
Your goal is to digest a conversation history between a user and the NOVA Emotional AI and produce a comprehensive psychological assessment report.

**Output Format:**
Return a JSON object matching the AnalysisReport schema:
- timestamp (string): ISO date string.
- patientName (string): Inferred name or "Subject".
- stressLevel (number): 0-100 calculated stress level based on the conversation.
- emotionalProfile (array): List of objects { emotion: string, score: number (0-100), color: string (hex) }. Include top 5 emotions.
- rootCauseAnalysis (string): A detailed paragraph analyzing the underlying causes of the user's state.
- longTermStrategy (string): A strategic plan for emotional improvement.
- inputSummary (string): A concise summary of the user's key inputs/concerns.
- suggestedInterventions (string[]): A list of 3-5 actionable steps for the user.
`

// ErrNotEnoughMessages means the session holds nothing beyond the welcome
// greeting; generation is refused before any network call.
var ErrNotEnoughMessages = errors.New("report: not enough conversation to analyze")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator produces AnalysisReports from session transcripts. Unlike the
// chat path, every failure propagates; no synthetic report is fabricated.
type Generator struct {
	models contentGenerator
	model  string
}

func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ai.ErrAPIKeyMissing
	}
	if model == "" {
		model = ai.DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("report: create client: %w", err)
	}
	return &Generator{models: client.Models, model: model}, nil
}

// BuildTranscript flattens the conversation, excluding the welcome message.
// Lines carry the attached emotion when one exists.
func BuildTranscript(messages []session.Message) string {
	var lines []string
	for _, m := range messages {
		if m.ID == session.WelcomeID {
			continue
		}
		line := fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Text)
		if m.Analysis != nil {
			line += fmt.Sprintf(" [Emotion: %s]", m.Analysis.DetectedEmotion)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func reportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"timestamp":   {Type: genai.TypeString},
			"patientName": {Type: genai.TypeString},
			"stressLevel": {Type: genai.TypeInteger},
			"emotionalProfile": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"emotion": {Type: genai.TypeString, Enum: ai.EmotionLabels},
						"score":   {Type: genai.TypeInteger},
						"color":   {Type: genai.TypeString},
					},
				},
			},
			"rootCauseAnalysis": {Type: genai.TypeString},
			"longTermStrategy":  {Type: genai.TypeString},
			"inputSummary":      {Type: genai.TypeString},
			"suggestedInterventions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{
			"timestamp", "patientName", "stressLevel", "emotionalProfile",
			"rootCauseAnalysis", "longTermStrategy", "inputSummary",
			"suggestedInterventions",
		},
	}
}

// Generate builds the transcript and asks the analytical engine for the
// structured report. The welcome-only precondition is checked first so a
// too-short session never reaches the network.
func (g *Generator) Generate(ctx context.Context, messages []session.Message) (*AnalysisReport, error) {
	real := 0
	for _, m := range messages {
		if m.ID != session.WelcomeID {
			real++
		}
	}
	if real < 2 {
		return nil, ErrNotEnoughMessages
	}

	prompt := "Please analyze the following conversation history and generate a detailed psychological report:\n\n" +
		BuildTranscript(messages)

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: analysisSystemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    reportSchema(),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	var out AnalysisReport
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("report: parse response: %w", err)
	}
	return &out, nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("report: no candidates in response")
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return "", errors.New("report: no content in response")
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("report: empty response text")
	}
	return text, nil
}
