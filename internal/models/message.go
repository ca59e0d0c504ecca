package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a message. The store accepts any
// transition between the four values; validation only rejects values
// outside the enum.
type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
	StatusSent     Status = "sent"
)

// ValidStatus reports whether s is one of the four recognized values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUnread, StatusRead, StatusArchived, StatusSent:
		return true
	}
	return false
}

// Priority is assigned at creation and never mutated by the dashboard.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Message is a document in the system_inbox container. The recipient (To)
// doubles as the storage partition key.
type Message struct {
	ID         string   `json:"id"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Subject    string   `json:"subject,omitempty"`
	Content    string   `json:"content"`
	Timestamp  string   `json:"timestamp"`
	Status     Status   `json:"status"`
	Priority   Priority `json:"priority"`
	Type       string   `json:"type"`
	ThreadID   string   `json:"thread_id,omitempty"`
	Edited     bool     `json:"edited,omitempty"`
	LastEdited string   `json:"last_edited,omitempty"`
}

// Time parses the message timestamp. Documents written by older dashboard
// builds carry bare ISO timestamps without a zone; both forms are accepted.
func (m *Message) Time() time.Time {
	if t, err := time.Parse(time.RFC3339, m.Timestamp); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", m.Timestamp); err == nil {
		return t
	}
	return time.Time{}
}

// IsUnread reports whether the message still awaits a first read.
func (m *Message) IsUnread() bool { return m.Status == StatusUnread }

// Draft is the client-side shape of a message about to be created.
// The server assigns ID, Timestamp and the initial status.
type Draft struct {
	From     string   `json:"from_agent"`
	To       string   `json:"to"`
	Content  string   `json:"content"`
	Subject  string   `json:"subject,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Type     string   `json:"message_type,omitempty"`
	ThreadID string   `json:"thread_id,omitempty"`
}

// Normalize trims whitespace-only fields and fills defaults the same way
// the server would, so optimistic local copies match the stored document.
func (d *Draft) Normalize() {
	d.Content = strings.TrimSpace(d.Content)
	d.Subject = strings.TrimSpace(d.Subject)
	if d.Priority == "" {
		d.Priority = PriorityNormal
	}
	if d.Type == "" {
		d.Type = "MESSAGE"
	}
}
