package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/ai"
	"github.com/novalabs/nova-backend/internal/chat"
	"github.com/novalabs/nova-backend/internal/session"
	"github.com/novalabs/nova-backend/internal/store/memstore"
)

type okDispatcher struct{}

func (okDispatcher) Dispatch(ctx context.Context, in ai.Input) (ai.NovaResponse, error) {
	return ai.NovaResponse{
		Response: "That sounds heavy. I'm listening.",
		Analysis: ai.EmotionAnalysis{DetectedEmotion: "Sadness", Confidence: 0.85, Reasoning: "ok"},
	}, nil
}

func newChatRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := session.NewStore(memstore.New())
	h := &Handler{
		ChatSvc:  chat.NewService(sessions, okDispatcher{}),
		Sessions: sessions,
	}
	r := gin.New()
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.POST("/sessions/:id/messages", h.SendMessage)
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %s: %v", w.Body.String(), err)
	}
	return w, env
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	r := newChatRouter()

	w, env := doJSON(t, r, http.MethodPost, "/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	var created struct {
		Session session.Session `json:"session"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	id := created.Session.ID
	if id == "" {
		t.Fatal("empty session id")
	}
	if len(created.Session.Messages) != 1 || created.Session.Messages[0].ID != session.WelcomeID {
		t.Fatalf("new session not seeded with welcome: %+v", created.Session.Messages)
	}

	w, env = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/messages", `{"text":"I feel terrible"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("send status = %d body = %s", w.Code, w.Body.String())
	}
	var sent struct {
		SessionID string     `json:"session_id"`
		Preview   string     `json:"preview"`
		Reply     ai.NovaResponse `json:"reply"`
	}
	if err := json.Unmarshal(env.Data, &sent); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if sent.Reply.Analysis.DetectedEmotion != "Sadness" {
		t.Errorf("reply analysis = %+v", sent.Reply.Analysis)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/sessions/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/sessions/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/sessions/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
	// deletes are idempotent
	w, _ = doJSON(t, r, http.MethodDelete, "/sessions/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("second delete status = %d", w.Code)
	}
}

func TestSendMessage_UnknownSession(t *testing.T) {
	r := newChatRouter()
	w, _ := doJSON(t, r, http.MethodPost, "/sessions/does-not-exist/messages", `{"text":"hi"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSendMessage_EmptyInput(t *testing.T) {
	r := newChatRouter()
	_, env := doJSON(t, r, http.MethodPost, "/sessions", "")
	var created struct {
		Session session.Session `json:"session"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	w, _ := doJSON(t, r, http.MethodPost, "/sessions/"+created.Session.ID+"/messages", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
