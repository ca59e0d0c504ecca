package render

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/acastano/inboxtui/internal/models"
)

// previewLimit is the maximum display width of the content preview before
// it is cut with an ellipsis.
const previewLimit = 120

// MessageColorer maps message state to list colors.
type MessageColorer struct {
	UnreadColor   tcell.Color
	ReadColor     tcell.Color
	SentColor     tcell.Color
	ArchivedColor tcell.Color
	HighColor     tcell.Color
}

// NewMessageColorer creates a colorer with default colors.
func NewMessageColorer() *MessageColorer {
	return &MessageColorer{
		UnreadColor:   tcell.ColorOrange,
		ReadColor:     tcell.ColorGray,
		SentColor:     tcell.ColorGreen,
		ArchivedColor: tcell.ColorDarkGray,
		HighColor:     tcell.ColorRed,
	}
}

// ColorFor picks the row color for a message. High priority wins over
// status except for archived rows.
func (mc *MessageColorer) ColorFor(msg *models.Message) tcell.Color {
	if msg.Status == models.StatusArchived {
		return mc.ArchivedColor
	}
	if msg.Priority == models.PriorityHigh {
		return mc.HighColor
	}
	switch msg.Status {
	case models.StatusUnread:
		return mc.UnreadColor
	case models.StatusSent:
		return mc.SentColor
	default:
		return mc.ReadColor
	}
}

// MessageRenderer formats messages for the list and detail views.
type MessageRenderer struct {
	colorer *MessageColorer
	self    string
}

// NewMessageRenderer creates a renderer for the given dashboard identity.
func NewMessageRenderer(self string) *MessageRenderer {
	return &MessageRenderer{
		colorer: NewMessageColorer(),
		self:    self,
	}
}

// FormatMessageList builds one fixed-column list row:
// sender | subject/preview(+markers) | relative time.
func (mr *MessageRenderer) FormatMessageList(msg *models.Message, maxWidth int) (string, tcell.Color) {
	sender := msg.From
	if msg.From == mr.self {
		sender = "me → " + msg.To
	}
	if sender == "" {
		sender = "(unknown)"
	}

	title := msg.Subject
	if title == "" {
		title = Preview(msg.Content)
	}
	if title == "" {
		title = "(empty)"
	}

	date := FormatRelativeTime(msg.Time())

	if maxWidth < 40 {
		maxWidth = 40
	}
	senderWidth := 22
	dateWidth := 8
	suffix := mr.buildMarkers(msg)
	suffixWidth := runewidth.StringWidth(suffix)
	// separators and spaces (" | ", " | ") = 6
	titleWidth := maxWidth - senderWidth - dateWidth - 6 - suffixWidth
	if titleWidth < 10 {
		titleWidth = 10
	}

	formatted := fmt.Sprintf("%s | %s%s | %s",
		fitWidth(sender, senderWidth),
		fitWidth(title, titleWidth),
		suffix,
		fitWidth(date, dateWidth),
	)

	return formatted, mr.colorer.ColorFor(msg)
}

// buildMarkers returns trailing markers like " ! (edited) 🧵".
func (mr *MessageRenderer) buildMarkers(msg *models.Message) string {
	var b strings.Builder
	if msg.Priority == models.PriorityHigh {
		b.WriteString(" !")
	}
	if msg.Edited {
		b.WriteString(" (edited)")
	}
	if msg.ThreadID != "" {
		b.WriteString(" 🧵")
	}
	return b.String()
}

// FormatMessageHeader builds the detail view header block.
func (mr *MessageRenderer) FormatMessageHeader(msg *models.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From:    %s\n", msg.From)
	fmt.Fprintf(&b, "To:      %s\n", msg.To)
	if msg.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	}
	fmt.Fprintf(&b, "Date:    %s\n", msg.Time().Format("Mon, 02 Jan 2006 15:04:05 -0700"))
	fmt.Fprintf(&b, "Status:  %s", msg.Status)
	if msg.Priority != "" && msg.Priority != models.PriorityNormal {
		fmt.Fprintf(&b, "  Priority: %s", msg.Priority)
	}
	if msg.Edited {
		edited := msg.LastEdited
		if edited == "" {
			edited = "yes"
		}
		fmt.Fprintf(&b, "\nEdited:  %s", edited)
	}
	b.WriteString("\n")
	return b.String()
}

// Preview flattens content to a single line and cuts it to the preview
// width with an ellipsis.
func Preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if runewidth.StringWidth(content) <= previewLimit {
		return content
	}
	return runewidth.Truncate(content, previewLimit, "…")
}

// fitWidth truncates by display width with an ellipsis and right-pads to
// the exact width.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "...")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
