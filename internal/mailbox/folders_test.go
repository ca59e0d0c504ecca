package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acastano/inboxtui/internal/models"
)

func sampleMessages() []models.Message {
	return []models.Message{
		{ID: "m1", From: "ops_agent", To: "claude_code", Status: models.StatusUnread},
		{ID: "m2", From: "ops_agent", To: "claude_code", Status: models.StatusRead},
		{ID: "m3", From: "claude_code", To: "ops_agent", Status: models.StatusSent},
		{ID: "m4", From: "ops_agent", To: "claude_code", Status: models.StatusArchived},
		{ID: "m5", From: "claude_code", To: "qa_agent", Status: models.StatusArchived},
		{ID: "m6", From: "qa_agent", To: "claude_code", Status: models.StatusUnread},
	}
}

func ids(msgs []models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestSelectFolder(t *testing.T) {
	msgs := sampleMessages()

	tests := []struct {
		name   string
		folder Folder
		want   []string
	}{
		{"all excludes archived", FolderAll, []string{"m1", "m2", "m3", "m6"}},
		{"unread only", FolderUnread, []string{"m1", "m6"}},
		{"sent is mine and not archived", FolderSent, []string{"m3"}},
		{"archived regardless of sender", FolderArchived, []string{"m4", "m5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectFolder(msgs, tt.folder, "claude_code")
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectFolderPreservesOrder(t *testing.T) {
	msgs := sampleMessages()
	got := SelectFolder(msgs, FolderAll, "claude_code")

	// Result order must be buffer order, never re-sorted.
	last := -1
	pos := map[string]int{}
	for i, m := range msgs {
		pos[m.ID] = i
	}
	for _, m := range got {
		assert.Greater(t, pos[m.ID], last)
		last = pos[m.ID]
	}
}

func TestEveryMessageVisibleSomewhere(t *testing.T) {
	// A non-archived message always appears in all; an archived one in
	// archived. No message can vanish from every folder.
	for _, m := range sampleMessages() {
		buf := []models.Message{m}
		inAll := len(SelectFolder(buf, FolderAll, "claude_code"))
		inArchived := len(SelectFolder(buf, FolderArchived, "claude_code"))
		assert.Equal(t, 1, inAll+inArchived, "message %s", m.ID)
	}
}

func TestValidFolder(t *testing.T) {
	for _, f := range Folders() {
		assert.True(t, ValidFolder(f))
	}
	assert.False(t, ValidFolder(Folder("spam")))
}
