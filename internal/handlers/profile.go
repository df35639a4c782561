package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/services"
)

type ProfileHandler struct {
	log        *logger.Logger
	profileSvc services.ProfileService
}

func NewProfileHandler(baseLog *logger.Logger, profileSvc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:        baseLog.With("handler", "ProfileHandler"),
		profileSvc: profileSvc,
	}
}

type createProfileRequest struct {
	NoContactStartDate time.Time `json:"no_contact_start_date" binding:"required"`
}

// POST /api/profile
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, err := h.profileSvc.Create(c.Request.Context(), req.NoContactStartDate)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profileSvc.Get(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

// GET /api/progress
func (h *ProfileHandler) GetProgress(c *gin.Context) {
	progress, err := h.profileSvc.Progress(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, progress)
}

// POST /api/profile/app-open
func (h *ProfileHandler) RecordAppOpen(c *gin.Context) {
	p, err := h.profileSvc.RecordAppOpen(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

type journalEntryRequest struct {
	Text string `json:"text"`
}

type journalEntryResponse struct {
	Profile              any      `json:"profile"`
	UnlockedAchievements []string `json:"unlocked_achievements"`
}

// POST /api/journal
func (h *ProfileHandler) CreateJournalEntry(c *gin.Context) {
	var req journalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, unlocked, err := h.profileSvc.RecordJournalEntry(c.Request.Context(), req.Text)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if unlocked == nil {
		unlocked = []string{}
	}
	RespondOK(c, journalEntryResponse{Profile: p, UnlockedAchievements: unlocked})
}

// DELETE /api/journal
func (h *ProfileHandler) DeleteJournalEntry(c *gin.Context) {
	p, err := h.profileSvc.RecordJournalDeletion(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

type noContactDateRequest struct {
	NoContactStartDate time.Time `json:"no_contact_start_date" binding:"required"`
}

// PATCH /api/profile/no-contact-date
func (h *ProfileHandler) UpdateNoContactDate(c *gin.Context) {
	var req noContactDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, err := h.profileSvc.SetNoContactStartDate(c.Request.Context(), req.NoContactStartDate)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, p)
}

type milestoneCheckResponse struct {
	Milestone any `json:"milestone"`
}

// POST /api/milestones/check
func (h *ProfileHandler) CheckMilestones(c *gin.Context) {
	unlock, err := h.profileSvc.CheckMilestones(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if unlock == nil {
		RespondOK(c, milestoneCheckResponse{Milestone: nil})
		return
	}
	RespondOK(c, milestoneCheckResponse{Milestone: unlock})
}

// GET /api/profile/export
func (h *ProfileHandler) Export(c *gin.Context) {
	snapshot, err := h.profileSvc.ExportSnapshot(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, snapshot)
}

// DELETE /api/profile
func (h *ProfileHandler) Erase(c *gin.Context) {
	if err := h.profileSvc.EraseAll(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
