package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalabs/nova-backend/internal/profile"
)

type profileReq struct {
	Name      string   `json:"name" binding:"required"`
	Gender    string   `json:"gender" binding:"required,oneof=male female other"`
	Goal      string   `json:"goal"`
	Feeling   string   `json:"feeling"`
	Interests []string `json:"interests"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.Profile.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if p == nil {
		fail(c, http.StatusNotFound, 40005, "no profile saved")
		return
	}
	ok(c, gin.H{"profile": p})
}

func (h *Handler) PutProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid profile")
		return
	}

	p := profile.UserProfile{
		Name:      req.Name,
		Gender:    req.Gender,
		Goal:      req.Goal,
		Feeling:   req.Feeling,
		Interests: req.Interests,
	}
	if err := h.Profile.Save(c.Request.Context(), p); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to save profile")
		return
	}
	ok(c, gin.H{"profile": p})
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.Profile.Delete(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to delete profile")
		return
	}
	ok(c, gin.H{"deleted": true})
}
