package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/novalabs/nova-backend/internal/ai"
	"github.com/novalabs/nova-backend/internal/session"
)

const welcomeText = "Hello, I'm NOVA. I'm here to listen and understand how you're feeling. " +
	"I can analyze your text, voice, or facial expressions to provide the best support. " +
	"What's on your mind today?"

// Analyzer is the dispatch/fallback client the service sends turns through.
type Analyzer interface {
	Dispatch(ctx context.Context, in ai.Input) (ai.NovaResponse, error)
}

// Service ties the session store to the dispatcher: it appends the user
// turn, obtains a reply, appends the model turn and persists after every
// append. Stateless per call.
type Service struct {
	sessions   *session.Store
	dispatcher Analyzer
}

func NewService(sessions *session.Store, dispatcher Analyzer) *Service {
	return &Service{sessions: sessions, dispatcher: dispatcher}
}

func welcomeMessage() session.Message {
	return session.Message{
		ID:        session.WelcomeID,
		Role:      session.RoleModel,
		Text:      welcomeText,
		Timestamp: time.Now(),
		Analysis: &ai.EmotionAnalysis{
			DetectedEmotion: "Caring",
			Confidence:      1.0,
			Reasoning:       "Initial greeting protocol: Establish empathetic rapport.",
		},
	}
}

// NewConversation creates a session seeded with the welcome message and
// persists it immediately so it shows up in the list.
func (s *Service) NewConversation(ctx context.Context) (session.Session, error) {
	sess, err := s.sessions.CreateEmpty()
	if err != nil {
		return session.Session{}, err
	}
	sess.Messages = []session.Message{welcomeMessage()}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// SendMessage runs one turn. A total dispatch failure still produces a model
// message, but with the apology text and no attached analysis.
func (s *Service) SendMessage(ctx context.Context, sessionID string, in ai.Input) (session.Session, session.Message, error) {
	if in.Empty() {
		return session.Session{}, session.Message{}, ai.ErrEmptyInput
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return session.Session{}, session.Message{}, err
	}

	userMsg := session.Message{
		ID:        uuid.NewString(),
		Role:      session.RoleUser,
		Text:      in.Text,
		Timestamp: time.Now(),
		Image:     in.ImageB64,
		Audio:     in.AudioB64 != "",
	}
	sess.Messages = append(sess.Messages, userMsg)

	resp, dispatchErr := s.dispatcher.Dispatch(ctx, in)
	if dispatchErr != nil && !errors.Is(dispatchErr, ai.ErrAllPathsFailed) {
		return session.Session{}, session.Message{}, dispatchErr
	}

	modelMsg := session.Message{
		ID:        uuid.NewString(),
		Role:      session.RoleModel,
		Text:      resp.Response,
		Timestamp: time.Now(),
	}
	if dispatchErr == nil {
		analysis := resp.Analysis
		modelMsg.Analysis = &analysis
	}
	sess.Messages = append(sess.Messages, modelMsg)

	sess.Preview = session.PreviewOf(modelMsg.Text)
	sess.Timestamp = time.Now().UnixMilli()

	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, session.Message{}, err
	}
	return sess, modelMsg, nil
}
