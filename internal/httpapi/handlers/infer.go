package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/emotion"
)

// Infer serves the primary-backend contract so this process can act as the
// local inference collaborator the dispatch client points at.
type inferReq struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
	Image   string `json:"image"` // accepted, not decoded by the rule engine
	Audio   string `json:"audio"` // accepted, not decoded by the rule engine
}

type inferResp struct {
	Response         string   `json:"response"`
	DominantEmotions string   `json:"dominant_emotions"`
	SuggestedActions []string `json:"suggested_actions"`
}

func (h *Handler) Infer(c *gin.Context) {
	var req inferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Text == "" && req.Image == "" && req.Audio == "" {
		fail(c, http.StatusBadRequest, 10002, "text, image or audio required")
		return
	}

	r := emotion.Analyze(req.Text)
	c.JSON(http.StatusOK, inferResp{
		Response:         r.Reply,
		DominantEmotions: r.Dominant,
		SuggestedActions: r.SuggestedActions,
	})
}
