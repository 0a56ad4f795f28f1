package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novalabs/nova-backend/internal/report"
	"github.com/novalabs/nova-backend/internal/session"
)

// GenerateReport runs the analysis synchronously. Report failures surface
// to the caller, unlike the chat path which degrades to an apology bubble.
func (h *Handler) GenerateReport(c *gin.Context) {
	if h.Reports == nil {
		fail(c, http.StatusServiceUnavailable, 50301, "report engine not configured")
		return
	}

	sess, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	rep, err := h.Reports.Generate(c.Request.Context(), sess.Messages)
	if err != nil {
		if errors.Is(err, report.ErrNotEnoughMessages) {
			fail(c, http.StatusUnprocessableEntity, 42201, "have a conversation first")
			return
		}
		log.Printf("[report] generate failed session=%s err=%v", sess.ID, err)
		fail(c, http.StatusBadGateway, 50201, "report generation failed")
		return
	}

	ok(c, gin.H{"report": rep})
}

// EnqueueReport creates a queued job and publishes it for the worker.
func (h *Handler) EnqueueReport(c *gin.Context) {
	if h.ReportRepo == nil || h.Rabbit == nil {
		fail(c, http.StatusServiceUnavailable, 50302, "async reports not configured")
		return
	}

	sess, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	// same precondition as the sync path, checked before queueing
	real := 0
	for _, m := range sess.Messages {
		if m.ID != session.WelcomeID {
			real++
		}
	}
	if real < 2 {
		fail(c, http.StatusUnprocessableEntity, 42201, "have a conversation first")
		return
	}

	idempoKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(idempoKey) > 128 {
		fail(c, http.StatusBadRequest, 10003, "idempotency key too long")
		return
	}
	var idempoKeyPtr *string
	if idempoKey != "" {
		idempoKeyPtr = &idempoKey
	}

	jobID, err := session.NewSessionID()
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	j := &report.Job{
		ID:             jobID,
		SessionID:      sess.ID,
		IdempotencyKey: idempoKeyPtr,
		Status:         report.JobQueued,
	}
	j, created, err := h.ReportRepo.CreateJobOrGetExisting(c.Request.Context(), j)
	if err != nil {
		log.Printf("[report] create job failed session=%s err=%v", sess.ID, err)
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	// a dedup hit that is still queued gets re-published: the previous
	// attempt may have created the row and then failed to reach the broker
	if created || j.Status == report.JobQueued {
		if err := h.Rabbit.PublishJob(c.Request.Context(), j.ID); err != nil {
			log.Printf("[report] publish failed job=%s err=%v", j.ID, err)
			if markErr := h.ReportRepo.MarkJobFailed(c.Request.Context(), j.ID, "enqueue failed: "+err.Error()); markErr != nil {
				log.Printf("[report] mark failed job=%s err=%v", j.ID, markErr)
			}
			fail(c, http.StatusInternalServerError, 50002, "enqueue failed")
			return
		}
	}

	ok(c, gin.H{"job_id": j.ID})
}

func (h *Handler) GetReportJob(c *gin.Context) {
	if h.ReportRepo == nil {
		fail(c, http.StatusServiceUnavailable, 50302, "async reports not configured")
		return
	}

	jobID := c.Param("job_id")
	if jobID == "" {
		fail(c, http.StatusBadRequest, 10002, "job_id required")
		return
	}

	j, err := h.ReportRepo.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	out := gin.H{
		"id":         j.ID,
		"session_id": j.SessionID,
		"status":     j.Status,
		"error":      j.Error,
		"created_at": j.CreatedAt,
		"updated_at": j.UpdatedAt,
	}
	if j.Status == report.JobSucceeded && j.ReportJSON != nil {
		var rep report.AnalysisReport
		if err := json.Unmarshal([]byte(*j.ReportJSON), &rep); err == nil {
			out["report"] = rep
		}
	}
	ok(c, gin.H{"job": out})
}
