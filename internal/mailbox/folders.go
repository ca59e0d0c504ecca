package mailbox

import (
	"github.com/acastano/inboxtui/internal/models"
	"github.com/samber/lo"
)

// Folder is a named, derived subset of the message collection. Membership
// is computed from status and sender at render time, never stored.
type Folder string

const (
	FolderAll      Folder = "all"
	FolderUnread   Folder = "unread"
	FolderSent     Folder = "sent"
	FolderArchived Folder = "archived"
)

// Folders returns the selectable folders in display order.
func Folders() []Folder {
	return []Folder{FolderAll, FolderUnread, FolderSent, FolderArchived}
}

// ValidFolder reports whether f names a known folder.
func ValidFolder(f Folder) bool {
	switch f {
	case FolderAll, FolderUnread, FolderSent, FolderArchived:
		return true
	}
	return false
}

// SelectFolder returns the members of folder among messages, preserving the
// input order. self is the dashboard identity used by the sent folder.
func SelectFolder(messages []models.Message, folder Folder, self string) []models.Message {
	switch folder {
	case FolderUnread:
		return lo.Filter(messages, func(m models.Message, _ int) bool {
			return m.Status == models.StatusUnread
		})
	case FolderSent:
		return lo.Filter(messages, func(m models.Message, _ int) bool {
			return m.From == self && m.Status != models.StatusArchived
		})
	case FolderArchived:
		return lo.Filter(messages, func(m models.Message, _ int) bool {
			return m.Status == models.StatusArchived
		})
	default: // FolderAll
		return lo.Filter(messages, func(m models.Message, _ int) bool {
			return m.Status != models.StatusArchived
		})
	}
}
