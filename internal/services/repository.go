package services

import (
	"context"
	"fmt"

	"github.com/acastano/inboxtui/internal/models"
)

// MessageRepositoryImpl implements MessageRepository on top of the REST
// store client.
type MessageRepositoryImpl struct {
	store StoreClient
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store StoreClient) *MessageRepositoryImpl {
	return &MessageRepositoryImpl{store: store}
}

func (r *MessageRepositoryImpl) GetMessages(ctx context.Context, opts QueryOptions) (*MessagePage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if opts.Offset < 0 {
		return nil, fmt.Errorf("offset must be non-negative, got %d: %w", opts.Offset, ErrInvalidInput)
	}

	var (
		page *MessagePage
		err  error
	)
	if opts.Recipient == "" {
		page, err = r.store.ListAllMessages(ctx, opts.Offset, limit)
	} else {
		page, err = r.store.ListMessages(ctx, opts.Recipient, opts.Offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return page, nil
}

func (r *MessageRepositoryImpl) CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error) {
	msg, err := r.store.CreateMessage(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

func (r *MessageRepositoryImpl) UpdateStatus(ctx context.Context, id string, newStatus models.Status) error {
	if id == "" {
		return fmt.Errorf("message ID cannot be empty: %w", ErrInvalidMessageID)
	}
	if !models.ValidStatus(newStatus) {
		return fmt.Errorf("status %q: %w", newStatus, ErrInvalidStatus)
	}
	if err := r.store.UpdateStatus(ctx, id, newStatus); err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}
	return nil
}

func (r *MessageRepositoryImpl) EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error) {
	if id == "" {
		return nil, fmt.Errorf("message ID cannot be empty: %w", ErrInvalidMessageID)
	}
	msg, err := r.store.EditContent(ctx, id, newContent, newSubject)
	if err != nil {
		return nil, fmt.Errorf("failed to edit message %s: %w", id, err)
	}
	return msg, nil
}
