package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/platform/openai"
)

const maxChatMessageLen = 4000

// ErrInvalidChatMessage rejects empty or oversized chat messages before the
// upstream call.
var ErrInvalidChatMessage = fmt.Errorf("message must be between 1 and %d characters", maxChatMessageLen)

// ErrChatUpstream wraps upstream LLM failures so handlers can map them to a
// server-side status.
var ErrChatUpstream = errors.New("support assistant is unavailable")

const supportSystemPrompt = `You are a warm, grounded support companion inside a no-contact recovery app.
The user is healing from a breakup and working on staying no-contact.
Respond with empathy first, keep replies short and concrete, and never give
medical advice. If the user mentions self-harm, gently point them to
professional crisis support.`

// ChatReply is the proxy response returned to the UI.
type ChatReply struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatService is a stateless proxy to the LLM. It holds no conversation
// state; its only side effect on the record is the chat-session counter the
// handler records after a successful reply.
type ChatService interface {
	SendMessage(ctx context.Context, message string) (*ChatReply, error)
}

type chatService struct {
	log    *logger.Logger
	client openai.Client
	now    func() time.Time
}

func NewChatService(baseLog *logger.Logger, client openai.Client) ChatService {
	return &chatService{
		log:    baseLog.With("service", "ChatService"),
		client: client,
		now:    time.Now,
	}
}

func (s *chatService) SendMessage(ctx context.Context, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxChatMessageLen {
		return nil, ErrInvalidChatMessage
	}

	reply, err := s.client.GenerateText(ctx, supportSystemPrompt, message)
	if err != nil {
		s.log.Error("Support assistant call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrChatUpstream, err)
	}

	return &ChatReply{Message: reply, Timestamp: s.now().UTC()}, nil
}
