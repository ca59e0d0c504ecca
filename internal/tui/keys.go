package tui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// bindKeys wires the configured shortcuts into the list view.
func (a *App) bindKeys() {
	list := a.list()

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Near-bottom navigation triggers the next page fetch.
		if event.Key() == tcell.KeyDown || (event.Key() == tcell.KeyRune && event.Rune() == 'j') {
			if list.GetCurrentItem() >= list.GetItemCount()-1 && a.model.HasMore() {
				a.loadMoreMessages()
			}
			if event.Key() == tcell.KeyRune {
				return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
			}
			return event
		}
		if event.Key() == tcell.KeyRune && event.Rune() == 'k' {
			return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
		}

		if event.Key() != tcell.KeyRune {
			return event
		}

		switch string(event.Rune()) {
		case a.Keys.Compose:
			a.openCompose(nil)
		case a.Keys.Reply:
			a.replySelected()
		case a.Keys.Edit:
			a.openEdit()
		case a.Keys.Refresh:
			a.reloadMessages()
		case a.Keys.LoadMore:
			a.loadMoreMessages()
		case a.Keys.ToggleRead:
			a.toggleRead()
		case a.Keys.Archive:
			a.archiveSelected()
		case a.Keys.Unarchive:
			a.unarchiveSelected()
		case a.Keys.NextFolder:
			a.cycleFolder()
		case a.Keys.Help:
			a.toggleHelp()
		case a.Keys.Quit:
			a.Stop()
		default:
			return event
		}
		return nil
	})
}

// toggleHelp shows or hides the shortcut reference.
func (a *App) toggleHelp() {
	const pageHelp = "help"
	if a.showHelp {
		a.showHelp = false
		a.closeModal(pageHelp)
		return
	}
	a.showHelp = true

	help := tview.NewTextView().SetDynamicColors(true)
	help.SetBorder(true)
	help.SetTitle(" Help ")
	help.SetText(a.helpText())
	help.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		a.showHelp = false
		a.closeModal(pageHelp)
		return nil
	})

	a.showModal(pageHelp, help, 50, 18)
}

func (a *App) helpText() string {
	k := a.Keys
	rows := []struct{ key, desc string }{
		{k.Compose, "Compose a new message"},
		{k.Reply, "Reply to selection"},
		{k.Edit, "Edit a sent message"},
		{k.Refresh, "Reload the current folder"},
		{k.LoadMore, "Fetch the next page"},
		{k.ToggleRead, "Toggle read/unread"},
		{k.Archive, "Archive"},
		{k.Unarchive, "Unarchive"},
		{k.NextFolder, "Next folder"},
		{k.Help, "Toggle this help"},
		{k.Quit, "Quit"},
	}
	out := ""
	for _, r := range rows {
		out += fmt.Sprintf("  [yellow]%s[-]  %s\n", r.key, r.desc)
	}
	out += "\n  [yellow]j/k[-]  Move selection (bottom loads more)\n"
	return out
}
