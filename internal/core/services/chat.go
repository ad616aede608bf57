package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatController implements the interface.
var _ driving.ChatController = (*ChatController)(nil)

// ChatController sends user turns and renders backend replies.
//
// A chat turn moves Idle -> Sending -> Replied or Failed. Failed forces the
// session to Disconnected regardless of the cause: one failed turn is
// treated as evidence that the whole connection is down.
type ChatController struct {
	session *Session
}

// Send records the user's text, clears the input and sends the turn.
// Blank input is a no-op.
func (c *ChatController) Send(ctx context.Context, text string) error {
	s := c.session
	if err := s.checkOpen(); err != nil {
		return err
	}

	message := strings.TrimSpace(text)
	if message == "" {
		return nil
	}

	if s.busy(chatKey) {
		s.say(domain.OriginError, textChatBusy)
		return fmt.Errorf("chat: %w", domain.ErrOperationInFlight)
	}

	s.say(domain.OriginUser, message)
	s.presenter.ClearInput()

	_, err := c.SendToServer(ctx, message)
	return err
}

// SendToServer sends one turn with a snapshot of the current document
// paths and renders the outcome.
func (c *ChatController) SendToServer(ctx context.Context, text string) (string, error) {
	s := c.session
	if err := s.checkOpen(); err != nil {
		return "", err
	}

	if !s.isConnected() {
		s.say(domain.OriginError, textNotConnected)
		return "", domain.ErrNotConnected
	}

	if !s.begin(chatKey) {
		s.say(domain.OriginError, textChatBusy)
		return "", fmt.Errorf("chat: %w", domain.ErrOperationInFlight)
	}
	defer s.end(chatKey)

	s.presenter.SetTyping(true)

	req := driven.ChatRequest{
		Message:   text,
		Documents: s.Documents().Paths(),
	}
	logger.Debug("chat turn with %d documents", len(req.Documents))

	resp, err := s.backend.Chat(ctx, req)

	s.presenter.SetTyping(false)

	if err != nil {
		logger.Warn("chat failed: %v", err)
		s.say(domain.OriginError, textChatFailed+errorDetail(err))
		s.setState(domain.Disconnected)
		return "", fmt.Errorf("chat: %w", err)
	}

	if resp.Reply == "" {
		s.say(domain.OriginBot, textNoReply)
		return "", nil
	}

	s.say(domain.OriginBot, resp.Reply)
	return resp.Reply, nil
}

// Messages returns a snapshot of the transcript.
func (c *ChatController) Messages() []domain.ChatMessage {
	return c.session.Messages()
}
