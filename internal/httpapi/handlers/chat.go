package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/ai"
	"github.com/novalabs/nova-backend/internal/session"
)

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.ChatSvc.NewConversation(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to create session")
		return
	}
	ok(c, gin.H{"session": sess})
}

func (h *Handler) ListSessions(c *gin.Context) {
	ok(c, gin.H{"sessions": h.Sessions.List(c.Request.Context())})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	ok(c, gin.H{"session": sess})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	// idempotent: deleting an unknown id still succeeds
	if err := h.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to delete session")
		return
	}
	ok(c, gin.H{"deleted": c.Param("id")})
}

type sendMessageReq struct {
	Text  string `json:"text"`
	Image string `json:"image"` // base64
	Audio string `json:"audio"` // base64
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	in := ai.Input{Text: req.Text, ImageB64: req.Image, AudioB64: req.Audio}
	sess, reply, err := h.ChatSvc.SendMessage(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			fail(c, http.StatusNotFound, 40004, "session not found")
		case errors.Is(err, ai.ErrEmptyInput):
			fail(c, http.StatusBadRequest, 10002, "text, image or audio required")
		default:
			fail(c, http.StatusInternalServerError, 50001, "failed to send message")
		}
		return
	}

	ok(c, gin.H{
		"session_id": sess.ID,
		"preview":    sess.Preview,
		"reply":      reply,
	})
}
