package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/acastano/inboxtui/internal/models"
	"github.com/samber/lo"
)

// InboxServiceImpl implements InboxService
type InboxServiceImpl struct {
	repo       MessageRepository
	identity   string
	recipients []string    // known recipient set; empty means unrestricted
	logger     *log.Logger // Optional - for debug logging
}

// NewInboxService creates a new inbox service. identity is the agent the
// dashboard acts as; recipients is the configured allow-list for compose.
func NewInboxService(repo MessageRepository, identity string, recipients []string) *InboxServiceImpl {
	return &InboxServiceImpl{
		repo:       repo,
		identity:   identity,
		recipients: recipients,
	}
}

// SetLogger sets the logger for debug output
func (s *InboxServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

func (s *InboxServiceImpl) MarkAsRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return s.repo.UpdateStatus(ctx, messageID, models.StatusRead)
}

func (s *InboxServiceImpl) MarkAsUnread(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return s.repo.UpdateStatus(ctx, messageID, models.StatusUnread)
}

// ArchiveMessage soft-deletes a message. Archiving an already archived
// message is a no-op on the server, so the operation is idempotent.
func (s *InboxServiceImpl) ArchiveMessage(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return s.repo.UpdateStatus(ctx, messageID, models.StatusArchived)
}

// UnarchiveMessage brings a message back into the regular folders as read.
func (s *InboxServiceImpl) UnarchiveMessage(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return s.repo.UpdateStatus(ctx, messageID, models.StatusRead)
}

// SendMessage validates a compose draft and persists it. The sender is
// always the dashboard identity regardless of what the form carried.
func (s *InboxServiceImpl) SendMessage(ctx context.Context, draft models.Draft) (*models.Message, error) {
	draft.From = s.identity
	draft.Normalize()

	if draft.Content == "" {
		return nil, fmt.Errorf("content cannot be empty: %w", ErrInvalidInput)
	}
	if draft.To == "" {
		return nil, fmt.Errorf("recipient cannot be empty: %w", ErrInvalidInput)
	}
	if len(s.recipients) > 0 && !lo.Contains(s.recipients, draft.To) {
		return nil, fmt.Errorf("recipient %q is not in the configured recipient list: %w", draft.To, ErrUnknownRecipient)
	}

	msg, err := s.repo.CreateMessage(ctx, draft)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Printf("sent message %s to %s", msg.ID, msg.To)
	}
	return msg, nil
}

// EditMessage replaces the content/subject of a message owned by the
// dashboard identity. Ownership is checked locally before any network call
// so a foreign message never leaves the client; the server enforces the
// same rule independently.
func (s *InboxServiceImpl) EditMessage(ctx context.Context, original models.Message, newContent, newSubject string) (*models.Message, error) {
	if original.ID == "" {
		return nil, fmt.Errorf("messageID cannot be empty")
	}
	if strings.TrimSpace(newContent) == "" {
		return nil, fmt.Errorf("content cannot be empty: %w", ErrInvalidInput)
	}
	if original.From != s.identity {
		return nil, fmt.Errorf("message %s belongs to %s: %w", original.ID, original.From, ErrForbidden)
	}
	return s.repo.EditContent(ctx, original.ID, newContent, newSubject)
}
