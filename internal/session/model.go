package session

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/novalabs/nova-backend/internal/ai"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	// WelcomeID marks the synthetic greeting; report generation excludes it.
	WelcomeID = "welcome"
)

// Message is one turn in a conversation. Immutable once appended.
type Message struct {
	ID        string              `json:"id"`
	Role      string              `json:"role"`
	Text      string              `json:"text"`
	Timestamp time.Time           `json:"timestamp"`
	Image     string              `json:"image,omitempty"` // base64
	Audio     bool                `json:"audio,omitempty"` // marker that the input was spoken
	Analysis  *ai.EmotionAnalysis `json:"emotionAnalysis,omitempty"`
}

// Session is one conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // last-write epoch ms
	Preview   string    `json:"preview"`
	Messages  []Message `json:"messages"`
}

// NewSessionID allocates a time-ordered, collision-resistant token.
func NewSessionID() (string, error) {
	id, err := ulid.New(ulid.Now(), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

const previewLimit = 40

// PreviewOf truncates message text for the session list. Only strictly
// longer texts get the ellipsis. Counted in runes so a multibyte character
// at the boundary is never split.
func PreviewOf(text string) string {
	runes := []rune(text)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return text
}
