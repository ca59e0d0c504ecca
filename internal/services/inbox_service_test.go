package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acastano/inboxtui/internal/models"
)

// MockMessageRepository implements MessageRepository for testing
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) GetMessages(ctx context.Context, opts QueryOptions) (*MessagePage, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessagePage), args.Error(1)
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id string, newStatus models.Status) error {
	args := m.Called(ctx, id, newStatus)
	return args.Error(0)
}

func (m *MockMessageRepository) EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error) {
	args := m.Called(ctx, id, newContent, newSubject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func TestMarkAsRead(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	repo.On("UpdateStatus", mock.Anything, "msg-1", models.StatusRead).Return(nil)

	err := svc.MarkAsRead(context.Background(), "msg-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMarkAsReadEmptyID(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	err := svc.MarkAsRead(context.Background(), "")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestArchiveAndUnarchive(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	repo.On("UpdateStatus", mock.Anything, "msg-1", models.StatusArchived).Return(nil)
	repo.On("UpdateStatus", mock.Anything, "msg-1", models.StatusRead).Return(nil)

	assert.NoError(t, svc.ArchiveMessage(context.Background(), "msg-1"))
	// Unarchive restores to read, never back to unread.
	assert.NoError(t, svc.UnarchiveMessage(context.Background(), "msg-1"))
	repo.AssertExpectations(t)
}

func TestSendMessageForcesSender(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	sent := &models.Message{ID: "new-id", From: "claude_code", To: "ops_agent"}
	repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(d models.Draft) bool {
		return d.From == "claude_code" && d.Priority == models.PriorityNormal && d.Type == "MESSAGE"
	})).Return(sent, nil)

	got, err := svc.SendMessage(context.Background(), models.Draft{
		From:    "spoofed_agent",
		To:      "ops_agent",
		Content: "  hello  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", got.ID)
	repo.AssertExpectations(t)
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   models.Draft
		wantErr error
	}{
		{"empty content", models.Draft{To: "ops_agent"}, ErrInvalidInput},
		{"whitespace content", models.Draft{To: "ops_agent", Content: "   "}, ErrInvalidInput},
		{"empty recipient", models.Draft{Content: "hi"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockMessageRepository{}
			svc := NewInboxService(repo, "claude_code", nil)

			_, err := svc.SendMessage(context.Background(), tt.draft)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "CreateMessage")
		})
	}
}

func TestSendMessageRecipientAllowList(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", []string{"ops_agent", "qa_agent"})

	_, err := svc.SendMessage(context.Background(), models.Draft{
		To:      "stranger",
		Content: "hi",
	})
	assert.ErrorIs(t, err, ErrUnknownRecipient)
	repo.AssertNotCalled(t, "CreateMessage")

	sent := &models.Message{ID: "new-id"}
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(sent, nil)
	_, err = svc.SendMessage(context.Background(), models.Draft{To: "qa_agent", Content: "hi"})
	assert.NoError(t, err)
}

func TestEditMessageOwnership(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	foreign := models.Message{ID: "msg-1", From: "ops_agent", Content: "original"}
	_, err := svc.EditMessage(context.Background(), foreign, "changed", "")

	// Refused locally: the repository is never reached.
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "EditContent")
}

func TestEditMessageSuccess(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	mine := models.Message{ID: "msg-1", From: "claude_code", Content: "v1"}
	updated := &models.Message{ID: "msg-1", From: "claude_code", Content: "v2", Edited: true}
	repo.On("EditContent", mock.Anything, "msg-1", "v2", "").Return(updated, nil)

	got, err := svc.EditMessage(context.Background(), mine, "v2", "")
	require.NoError(t, err)
	assert.True(t, got.Edited)
	repo.AssertExpectations(t)
}

func TestEditMessageEmptyContent(t *testing.T) {
	repo := &MockMessageRepository{}
	svc := NewInboxService(repo, "claude_code", nil)

	mine := models.Message{ID: "msg-1", From: "claude_code"}
	_, err := svc.EditMessage(context.Background(), mine, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "EditContent")
}
