package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/chat"
	"github.com/novalabs/nova-backend/internal/profile"
	"github.com/novalabs/nova-backend/internal/report"
	"github.com/novalabs/nova-backend/internal/session"
)

// JobPublisher hands a report job to the broker. Satisfied by
// *rabbitmq.Publisher.
type JobPublisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// Handler carries the wired services. Reports and Rabbit may be nil when
// the cloud credential or the broker is not configured; the affected
// endpoints answer 503 instead of panicking.
type Handler struct {
	ChatSvc    *chat.Service
	Sessions   *session.Store
	Profile    *profile.Service
	Reports    *report.Generator
	ReportRepo *report.Repo
	Rabbit     JobPublisher

	// relay upstream
	BackendURL  string
	RelayClient *http.Client
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

func (h *Handler) Ping(c *gin.Context) {
	ok(c, gin.H{"pong": true})
}
