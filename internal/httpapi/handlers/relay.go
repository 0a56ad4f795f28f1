package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RelayChat is the thin reverse-proxy contract kept for the legacy
// dashboard clients: it re-keys {message} to the backend's {text} and
// wraps the upstream JSON unchanged. Response shapes here are fixed by
// that contract, not the API envelope.
type relayReq struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) RelayChat(c *gin.Context) {
	var req relayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": "message is required"})
		return
	}

	body, err := json.Marshal(gin.H{"text": req.Message})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed", "details": err.Error()})
		return
	}

	url := fmt.Sprintf("%s/chat", h.BackendURL)
	upReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request build failed", "details": err.Error()})
		return
	}
	upReq.Header.Set("Content-Type", "application/json")

	resp, err := h.RelayClient.Do(upReq)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unreachable", "details": err.Error()})
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend read failed", "details": err.Error()})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(resp.StatusCode, gin.H{"error": "backend error", "details": string(raw)})
		return
	}

	var data json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend returned malformed json", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Analysis complete",
		"analysisData": data,
	})
}
