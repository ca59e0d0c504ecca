package inboxd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acastano/inboxtui/internal/client"
	"github.com/acastano/inboxtui/internal/models"
	"github.com/acastano/inboxtui/internal/services"
)

// The dashboard client and the server are developed against the same wire
// shapes; this suite pins them together end to end.

func newRoundTripClient(t *testing.T, identity string) *client.Client {
	t.Helper()
	_, ts := newTestServer(t)
	return client.New(ts.URL+"/api/v1", identity, 5*time.Second)
}

func TestRoundTripSendAndList(t *testing.T) {
	c := newRoundTripClient(t, "claude_code")
	ctx := context.Background()

	sent, err := c.CreateMessage(ctx, models.Draft{
		To:      "ops_agent",
		Content: "deploy finished",
		Subject: "deploy",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sent.ID)

	page, err := c.ListMessages(ctx, "ops_agent", 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	got := page.Messages[0]
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "claude_code", got.From)
	assert.Equal(t, "deploy finished", got.Content)
	assert.Equal(t, models.StatusUnread, got.Status)
	assert.Equal(t, models.PriorityNormal, got.Priority)
	assert.False(t, page.HasMore)
}

func TestRoundTripPagination(t *testing.T) {
	c := newRoundTripClient(t, "claude_code")
	ctx := context.Background()

	for i := 0; i < 70; i++ {
		_, err := c.CreateMessage(ctx, models.Draft{
			To:      "ops_agent",
			Content: "msg",
		})
		require.NoError(t, err)
	}

	first, err := c.ListMessages(ctx, "ops_agent", 0, 50)
	require.NoError(t, err)
	assert.Len(t, first.Messages, 50)
	assert.Equal(t, 70, first.TotalCount)
	assert.True(t, first.HasMore)

	second, err := c.ListMessages(ctx, "ops_agent", 50, 50)
	require.NoError(t, err)
	assert.Len(t, second.Messages, 20)
	assert.False(t, second.HasMore)

	beyond, err := c.ListMessages(ctx, "ops_agent", 500, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond.Messages)
	assert.False(t, beyond.HasMore)
}

func TestRoundTripStatusUpdate(t *testing.T) {
	c := newRoundTripClient(t, "claude_code")
	ctx := context.Background()

	sent, err := c.CreateMessage(ctx, models.Draft{To: "ops_agent", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, c.UpdateStatus(ctx, sent.ID, models.StatusArchived))

	page, err := c.ListMessages(ctx, "ops_agent", 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, models.StatusArchived, page.Messages[0].Status)

	err = c.UpdateStatus(ctx, "no_such_id", models.StatusRead)
	assert.ErrorIs(t, err, services.ErrMessageNotFound)
}

func TestRoundTripEditOwnership(t *testing.T) {
	owner := newRoundTripClient(t, "claude_code")
	ctx := context.Background()

	sent, err := owner.CreateMessage(ctx, models.Draft{To: "ops_agent", Content: "draft 1"})
	require.NoError(t, err)

	updated, err := owner.EditContent(ctx, sent.ID, "draft 2", "")
	require.NoError(t, err)
	assert.Equal(t, "draft 2", updated.Content)
	assert.True(t, updated.Edited)
	assert.NotEmpty(t, updated.LastEdited)
	assert.Equal(t, sent.Timestamp, updated.Timestamp)
}

func TestRoundTripEditForbidden(t *testing.T) {
	_, ts := newTestServer(t)
	owner := client.New(ts.URL+"/api/v1", "claude_code", 5*time.Second)
	stranger := client.New(ts.URL+"/api/v1", "ops_agent", 5*time.Second)
	ctx := context.Background()

	sent, err := owner.CreateMessage(ctx, models.Draft{To: "ops_agent", Content: "mine"})
	require.NoError(t, err)

	_, err = stranger.EditContent(ctx, sent.ID, "hijacked", "")
	assert.ErrorIs(t, err, services.ErrForbidden)

	page, err := owner.ListMessages(ctx, "ops_agent", 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "mine", page.Messages[0].Content)
}
