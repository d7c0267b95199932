package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/glide-ceylon/gidz-uni-path-sub000/internal/errors"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// MessageStore is the persistence surface MessageService needs.
// MessageRepo satisfies it.
type MessageStore interface {
	Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context, unhandledOnly bool, limit, offset int) ([]*model.Message, error)
	MarkHandled(ctx context.Context, id string, handled bool) (*model.Message, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Messages MessageStore
	Mailer   ports.Mailer
	Logger   *slog.Logger

	// InboxAddress receives the staff notification for each new message.
	// Empty disables notifications.
	InboxAddress string
}

// MessageService handles contact/consultation messages from the public site
// and the applicant portal.
type MessageService struct {
	messages MessageStore
	mailer   ports.Mailer
	logger   *slog.Logger
	inbox    string
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) *MessageService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{
		messages: opts.Messages,
		mailer:   opts.Mailer,
		logger:   logger.With("component", "messages"),
		inbox:    opts.InboxAddress,
	}
}

// Submit stores an inbound message and notifies the staff inbox best-effort.
func (s *MessageService) Submit(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	msg, err := s.messages.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && s.inbox != "" {
		notify := ports.MailMessage{
			To:      s.inbox,
			Subject: fmt.Sprintf("New inquiry: %s", msg.Subject),
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Body),
		}
		if mailErr := s.mailer.Send(ctx, notify); mailErr != nil {
			s.logger.WarnContext(ctx, "inbox notification failed", "message_id", msg.ID, "err", mailErr)
		}
	}
	return msg, nil
}

// GetByID retrieves a message by ID.
func (s *MessageService) GetByID(ctx context.Context, id string) (*model.Message, error) {
	return s.messages.GetByID(ctx, id)
}

// List returns messages, newest first, optionally only unhandled ones.
func (s *MessageService) List(ctx context.Context, unhandledOnly bool, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.List(ctx, unhandledOnly, limit, offset)
}

// MarkHandled flips the handled flag on a message.
func (s *MessageService) MarkHandled(ctx context.Context, id string, handled bool) (*model.Message, error) {
	return s.messages.MarkHandled(ctx, id, handled)
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) (bool, error) {
	return s.messages.Delete(ctx, id)
}
