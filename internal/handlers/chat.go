package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/services"
)

type ChatHandler struct {
	log        *logger.Logger
	chatSvc    services.ChatService
	profileSvc services.ProfileService
}

func NewChatHandler(baseLog *logger.Logger, chatSvc services.ChatService, profileSvc services.ProfileService) *ChatHandler {
	return &ChatHandler{
		log:        baseLog.With("handler", "ChatHandler"),
		chatSvc:    chatSvc,
		profileSvc: profileSvc,
	}
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

type chatResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// POST /api/chat
//
// The response shapes mirror the mobile client's contract: a bare
// {message, timestamp} on success and {error} on failure.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.chatSvc.SendMessage(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidChatMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Best effort: the reply is not failed when the metrics write is.
	if _, err := h.profileSvc.RecordChatSession(c.Request.Context()); err != nil {
		h.log.Warn("Failed to record chat session", "error", err)
	}

	c.JSON(http.StatusOK, chatResponse{
		Message:   reply.Message,
		Timestamp: reply.Timestamp.Format(time.RFC3339),
	})
}
