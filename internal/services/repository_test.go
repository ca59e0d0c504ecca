package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acastano/inboxtui/internal/models"
)

// MockStoreClient implements StoreClient for testing
type MockStoreClient struct {
	mock.Mock
}

func (m *MockStoreClient) ListMessages(ctx context.Context, recipient string, offset, limit int) (*MessagePage, error) {
	args := m.Called(ctx, recipient, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessagePage), args.Error(1)
}

func (m *MockStoreClient) ListAllMessages(ctx context.Context, offset, limit int) (*MessagePage, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessagePage), args.Error(1)
}

func (m *MockStoreClient) CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStoreClient) UpdateStatus(ctx context.Context, id string, newStatus models.Status) error {
	args := m.Called(ctx, id, newStatus)
	return args.Error(0)
}

func (m *MockStoreClient) EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error) {
	args := m.Called(ctx, id, newContent, newSubject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func TestGetMessagesDefaultLimit(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	store.On("ListMessages", mock.Anything, "claude_code", 0, 50).
		Return(&MessagePage{HasMore: false}, nil)

	_, err := repo.GetMessages(context.Background(), QueryOptions{Recipient: "claude_code"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetMessagesGlobalListing(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	// An empty recipient selects the global route.
	store.On("ListAllMessages", mock.Anything, 50, 25).
		Return(&MessagePage{}, nil)

	_, err := repo.GetMessages(context.Background(), QueryOptions{Offset: 50, Limit: 25})
	require.NoError(t, err)
	store.AssertNotCalled(t, "ListMessages")
}

func TestGetMessagesNegativeOffset(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	_, err := repo.GetMessages(context.Background(), QueryOptions{Recipient: "x", Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	store.AssertNotCalled(t, "ListMessages")
}

func TestGetMessagesPropagatesStoreError(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	store.On("ListMessages", mock.Anything, "x", 0, 50).
		Return(nil, errors.New("connection refused"))

	_, err := repo.GetMessages(context.Background(), QueryOptions{Recipient: "x"})
	assert.Error(t, err)
}

func TestUpdateStatusValidatesId(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	err := repo.UpdateStatus(context.Background(), "", models.StatusRead)
	assert.ErrorIs(t, err, ErrInvalidMessageID)
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	err := repo.UpdateStatus(context.Background(), "msg-1", models.Status("deleted"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	store.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateStatusAcceptsAnyTransition(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	// The enum is the only gate; no transition matrix exists.
	for _, status := range []models.Status{
		models.StatusUnread, models.StatusRead, models.StatusArchived, models.StatusSent,
	} {
		store.On("UpdateStatus", mock.Anything, "msg-1", status).Return(nil).Once()
		assert.NoError(t, repo.UpdateStatus(context.Background(), "msg-1", status))
	}
	store.AssertExpectations(t)
}

func TestEditContentValidatesId(t *testing.T) {
	store := &MockStoreClient{}
	repo := NewMessageRepository(store)

	_, err := repo.EditContent(context.Background(), "", "content", "")
	assert.ErrorIs(t, err, ErrInvalidMessageID)
}
