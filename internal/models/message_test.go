package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusUnread))
	assert.True(t, ValidStatus(StatusRead))
	assert.True(t, ValidStatus(StatusArchived))
	assert.True(t, ValidStatus(StatusSent))
	assert.False(t, ValidStatus(Status("")))
	assert.False(t, ValidStatus(Status("deleted")))
	assert.False(t, ValidStatus(Status("UNREAD")))
}

func TestMessageTime(t *testing.T) {
	cases := []struct {
		name      string
		timestamp string
		want      time.Time
	}{
		{
			name:      "rfc3339 with zone",
			timestamp: "2026-08-26T10:30:00Z",
			want:      time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		},
		{
			name:      "bare iso without zone",
			timestamp: "2026-08-26T10:30:00.123456",
			want:      time.Date(2026, 8, 26, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:      "bare iso without fraction",
			timestamp: "2026-08-26T10:30:00",
			want:      time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		},
		{
			name:      "garbage",
			timestamp: "yesterday",
			want:      time.Time{},
		},
		{
			name:      "empty",
			timestamp: "",
			want:      time.Time{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Message{Timestamp: tc.timestamp}
			assert.True(t, m.Time().Equal(tc.want), "got %v, want %v", m.Time(), tc.want)
		})
	}
}

func TestIsUnread(t *testing.T) {
	m := Message{Status: StatusUnread}
	assert.True(t, m.IsUnread())
	m.Status = StatusRead
	assert.False(t, m.IsUnread())
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{
		To:      "ops_agent",
		Content: "  hello  ",
		Subject: " subj ",
	}
	d.Normalize()

	assert.Equal(t, "hello", d.Content)
	assert.Equal(t, "subj", d.Subject)
	assert.Equal(t, PriorityNormal, d.Priority)
	assert.Equal(t, "MESSAGE", d.Type)
}

func TestDraftNormalizeKeepsExplicitFields(t *testing.T) {
	d := Draft{
		To:       "ops_agent",
		Content:  "hello",
		Priority: PriorityHigh,
		Type:     "ALERT",
	}
	d.Normalize()

	assert.Equal(t, PriorityHigh, d.Priority)
	assert.Equal(t, "ALERT", d.Type)
}
