package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/httpapi/handlers"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": 40400, "message": "route not found", "data": nil})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"code": 40500, "message": "method not allowed", "data": nil})
	})

	r.GET("/ping", h.Ping)

	// local inference backend contract
	r.POST("/chat", h.Infer)

	// legacy dashboard relay
	r.POST("/relay/chat", h.RelayChat)

	// conversations
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.POST("/sessions/:id/messages", h.SendMessage)

	// reports
	r.POST("/sessions/:id/report", h.GenerateReport)
	r.POST("/sessions/:id/report/async", h.EnqueueReport)
	r.GET("/reports/jobs/:job_id", h.GetReportJob)

	// onboarding profile
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.PutProfile)
	r.DELETE("/profile", h.DeleteProfile)

	return r
}
