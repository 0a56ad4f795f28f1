package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newRelayRouter(backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		BackendURL:  backendURL,
		RelayClient: &http.Client{Timeout: 2 * time.Second},
	}
	r := gin.New()
	r.POST("/relay/chat", h.RelayChat)
	return r
}

func TestRelayChat_WrapsUpstreamResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode upstream request: %v", err)
		}
		if body["text"] != "I feel sad" {
			t.Errorf("upstream text = %q, want re-keyed message", body["text"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response":          "I'm here for you.",
			"dominant_emotions": "Sadness",
			"suggested_actions": []string{"Talk it through"},
		})
	}))
	defer upstream.Close()

	r := newRelayRouter(upstream.URL)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/chat", strings.NewReader(`{"message":"I feel sad"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var out struct {
		Message      string         `json:"message"`
		AnalysisData map[string]any `json:"analysisData"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Message != "Analysis complete" {
		t.Errorf("message = %q", out.Message)
	}
	if out.AnalysisData["dominant_emotions"] != "Sadness" {
		t.Errorf("analysisData = %+v", out.AnalysisData)
	}
}

func TestRelayChat_UpstreamErrorKeepsStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	r := newRelayRouter(upstream.URL)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want upstream status", w.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["error"] == nil || out["details"] == nil {
		t.Errorf("body = %v, want error and details", out)
	}
}

func TestRelayChat_UnreachableBackendIs502(t *testing.T) {
	r := newRelayRouter("http://127.0.0.1:1") // nothing listens there

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestRelayChat_MissingMessage(t *testing.T) {
	r := newRelayRouter("http://127.0.0.1:1")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
