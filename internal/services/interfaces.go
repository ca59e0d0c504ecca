package services

import (
	"context"

	"github.com/acastano/inboxtui/internal/models"
)

// StoreClient is the transport the repository sits on. The REST client in
// internal/client implements it; tests swap in mocks.
type StoreClient interface {
	ListMessages(ctx context.Context, recipient string, offset, limit int) (*MessagePage, error)
	ListAllMessages(ctx context.Context, offset, limit int) (*MessagePage, error)
	CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error)
	UpdateStatus(ctx context.Context, id string, newStatus models.Status) error
	EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error)
}

// MessageRepository handles message data operations
type MessageRepository interface {
	GetMessages(ctx context.Context, opts QueryOptions) (*MessagePage, error)
	CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error)
	UpdateStatus(ctx context.Context, id string, newStatus models.Status) error
	EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error)
}

// InboxService handles mailbox business logic: validation, ownership and
// status transitions. It never touches UI state; optimistic bookkeeping
// lives in internal/mailbox.
type InboxService interface {
	MarkAsRead(ctx context.Context, messageID string) error
	MarkAsUnread(ctx context.Context, messageID string) error
	ArchiveMessage(ctx context.Context, messageID string) error
	UnarchiveMessage(ctx context.Context, messageID string) error
	SendMessage(ctx context.Context, draft models.Draft) (*models.Message, error)
	EditMessage(ctx context.Context, original models.Message, newContent, newSubject string) (*models.Message, error)
}

// CacheService handles the local snapshot cache used for warm starts
type CacheService interface {
	LoadSnapshot(ctx context.Context, recipient string) ([]models.Message, bool, error)
	SaveSnapshot(ctx context.Context, recipient string, messages []models.Message) error
	InvalidateSnapshot(ctx context.Context, recipient string) error
	ClearCache(ctx context.Context) error
}

// Data structures

// QueryOptions selects one page of a recipient's inbox. An empty Recipient
// queries the global listing.
type QueryOptions struct {
	Recipient string
	Offset    int
	Limit     int
}

// MessagePage is one page of results, newest first. HasMore means the page
// came back full, so another fetch at the advanced offset may yield more.
type MessagePage struct {
	Messages   []models.Message
	HasMore    bool
	TotalCount int
}
