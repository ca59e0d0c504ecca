package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/acastano/inboxtui/internal/mailbox"
	"github.com/acastano/inboxtui/internal/models"
	"github.com/acastano/inboxtui/internal/services"
)

// warmStart seeds the buffer from the snapshot cache so the list paints
// before the first network round trip. Runs before the event loop starts.
func (a *App) warmStart() {
	if a.cacheService == nil {
		return
	}
	msgs, found, err := a.cacheService.LoadSnapshot(a.ctx, a.Config.Agent)
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("snapshot load failed: %v", err)
		}
		return
	}
	if !found || len(msgs) == 0 {
		return
	}
	// Seed without touching the cursor: the first fetch still starts at
	// offset 0 and refreshes the seeded entries in place.
	a.model.Seed(msgs)
	a.refreshList()
}

// reloadMessages resets pagination, drops the buffer and fetches the
// first page of the active folder.
func (a *App) reloadMessages() {
	a.model.Clear()
	a.refreshList()
	a.fetchNextPage(true)
}

// loadMoreMessages fetches the next page if the cursor allows it. Extra
// triggers while a load is in flight are dropped.
func (a *App) loadMoreMessages() {
	a.fetchNextPage(false)
}

// fetchNextPage claims the cursor slot and runs the fetch off the UI
// goroutine. firstPage switches the status wording only.
func (a *App) fetchNextPage(firstPage bool) {
	offset, limit, gen, ok := a.model.BeginLoad()
	if !ok {
		if a.model.LoadState() == mailbox.StateExhausted && !firstPage {
			a.errorHandler.ShowMessageDirect("No more messages", LogLevelInfo)
		}
		return
	}

	folder := a.model.Folder()
	opts := services.QueryOptions{Recipient: a.Config.Agent, Offset: offset, Limit: limit}
	if folder == mailbox.FolderSent {
		// Sent messages are addressed to others; only the global listing
		// has them.
		opts.Recipient = ""
	}

	if firstPage {
		a.errorHandler.ShowMessageDirect("Loading messages…", LogLevelInfo)
	} else {
		a.errorHandler.ShowMessageDirect("Loading more…", LogLevelInfo)
	}

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
		defer cancel()

		page, err := a.repository.GetMessages(ctx, opts)

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.model.FailLoad(gen)
				a.errorHandler.ShowMessageDirect(loadErrorText(err), LogLevelError)
				return
			}
			if !a.model.ApplyPage(gen, page.Messages) {
				// The folder changed while this page was in flight.
				return
			}
			a.refreshList()
			a.errorHandler.ShowMessageDirect(
				fmt.Sprintf("Loaded %d messages", a.model.Len()), LogLevelInfo)

			if folder != mailbox.FolderSent && offset == 0 {
				a.saveSnapshotAsync(page.Messages)
			}
		})
	}()
}

func loadErrorText(err error) string {
	switch {
	case services.IsRetryableError(err):
		return fmt.Sprintf("Could not load messages (will retry on demand): %v", err)
	default:
		return fmt.Sprintf("Could not load messages: %v", err)
	}
}

// saveSnapshotAsync persists the first page for the next warm start.
func (a *App) saveSnapshotAsync(msgs []models.Message) {
	if a.cacheService == nil || len(msgs) == 0 {
		return
	}
	snapshot := make([]models.Message, len(msgs))
	copy(snapshot, msgs)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.cacheService.SaveSnapshot(ctx, a.Config.Agent, snapshot); err != nil {
			a.errorHandler.HandleError(ctx, err, "Could not save inbox snapshot")
		}
	}()
}

// setFolder switches the active folder: cursor back to zero, buffer
// cleared, first page fetched.
func (a *App) setFolder(f mailbox.Folder) {
	a.model.SetFolder(f)
	a.renderFolderBar()
	a.refreshList()
	a.fetchNextPage(true)
}

// cycleFolder advances to the next folder in display order.
func (a *App) cycleFolder() {
	folders := mailbox.Folders()
	current := a.model.Folder()
	for i, f := range folders {
		if f == current {
			a.setFolder(folders[(i+1)%len(folders)])
			return
		}
	}
	a.setFolder(mailbox.FolderAll)
}

// refreshList re-renders the visible projection of the buffer.
func (a *App) refreshList() {
	list := a.list()
	selected := list.GetCurrentItem()

	list.Clear()
	visible := a.model.Visible()
	width := a.listWidth()
	for i := range visible {
		row, color := a.renderer.FormatMessageList(&visible[i], width)
		if hex := color.Hex(); hex >= 0 {
			row = fmt.Sprintf("[#%06x]%s[-]", hex, row)
		}
		list.AddItem(row, visible[i].ID, 0, nil)
	}
	list.SetTitle(fmt.Sprintf(" %s (%d) ", a.model.Folder(), len(visible)))

	if selected >= list.GetItemCount() {
		selected = list.GetItemCount() - 1
	}
	if selected >= 0 && list.GetItemCount() > 0 {
		list.SetCurrentItem(selected)
	}
	if list.GetItemCount() == 0 {
		a.contentView().SetText("")
	}
}

// refreshItem redraws the single row showing id. A mutation that changed
// folder membership (archive in all, read in unread) falls back to the full
// rebuild, since the row has to appear or disappear.
func (a *App) refreshItem(id string) {
	msg, ok := a.model.Get(id)
	if !ok {
		a.refreshList()
		return
	}

	list := a.list()
	pos := -1
	for i := 0; i < list.GetItemCount(); i++ {
		if _, itemID := list.GetItemText(i); itemID == id {
			pos = i
			break
		}
	}
	stillVisible := false
	for _, v := range a.model.Visible() {
		if v.ID == id {
			stillVisible = true
			break
		}
	}
	if pos < 0 || !stillVisible {
		a.refreshList()
		return
	}

	row, color := a.renderer.FormatMessageList(&msg, a.listWidth())
	if hex := color.Hex(); hex >= 0 {
		row = fmt.Sprintf("[#%06x]%s[-]", hex, row)
	}
	list.SetItemText(pos, row, id)
}

func (a *App) listWidth() int {
	// The list takes half the horizontal split, minus the border.
	w := a.screenWidth/2 - 4
	if w < 40 {
		w = 40
	}
	return w
}

// selectedMessage resolves the highlighted list item to its message.
func (a *App) selectedMessage() (models.Message, bool) {
	list := a.list()
	idx := list.GetCurrentItem()
	if idx < 0 || idx >= list.GetItemCount() {
		return models.Message{}, false
	}
	_, id := list.GetItemText(idx)
	return a.model.Get(id)
}

// showMessageAt renders the detail pane for the message at the given list
// index. Read state only changes on an explicit toggle.
func (a *App) showMessageAt(index int) {
	list := a.list()
	if index < 0 || index >= list.GetItemCount() {
		return
	}
	_, id := list.GetItemText(index)
	msg, ok := a.model.Get(id)
	if !ok {
		return
	}

	header := a.renderer.FormatMessageHeader(&msg)
	a.contentView().SetText(fmt.Sprintf("%s\n%s", header, msg.Content))
	a.contentView().ScrollToBeginning()
}

// toggleRead flips the selected message between read and unread.
func (a *App) toggleRead() {
	msg, ok := a.selectedMessage()
	if !ok {
		return
	}
	if msg.IsUnread() {
		a.applyStatusChange(msg.ID, models.StatusRead, "Marked as read",
			func(ctx context.Context) error { return a.inboxService.MarkAsRead(ctx, msg.ID) })
	} else {
		a.applyStatusChange(msg.ID, models.StatusUnread, "Marked as unread",
			func(ctx context.Context) error { return a.inboxService.MarkAsUnread(ctx, msg.ID) })
	}
}

// archiveSelected moves the selected message to the archive.
func (a *App) archiveSelected() {
	msg, ok := a.selectedMessage()
	if !ok {
		return
	}
	if msg.Status == models.StatusArchived {
		a.errorHandler.ShowMessageDirect("Already archived", LogLevelInfo)
		return
	}
	a.applyStatusChange(msg.ID, models.StatusArchived, "Archived",
		func(ctx context.Context) error { return a.inboxService.ArchiveMessage(ctx, msg.ID) })
}

// unarchiveSelected restores an archived message to read.
func (a *App) unarchiveSelected() {
	msg, ok := a.selectedMessage()
	if !ok {
		return
	}
	if msg.Status != models.StatusArchived {
		a.errorHandler.ShowMessageDirect("Not archived", LogLevelInfo)
		return
	}
	a.applyStatusChange(msg.ID, models.StatusRead, "Unarchived",
		func(ctx context.Context) error { return a.inboxService.UnarchiveMessage(ctx, msg.ID) })
}

// applyStatusChange runs the optimistic status flow: apply locally, call
// the store, commit or roll back when the response lands. The outcome is
// announced in the flash row.
func (a *App) applyStatusChange(id string, status models.Status, successMsg string, op func(context.Context) error) {
	patch, ok := a.model.BeginStatusChange(id, status)
	if !ok {
		return
	}
	a.refreshItem(id)

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
		defer cancel()
		err := op(ctx)

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.model.Rollback(patch)
				a.refreshItem(id)
				return
			}
			a.model.Commit(patch, nil)
		})
		if err != nil {
			a.errorHandler.ShowFlashMessage(a.ctx,
				fmt.Sprintf("Update failed, reverted: %v", err), LogLevelError, flashDuration)
			return
		}
		a.errorHandler.ShowFlashMessage(a.ctx, successMsg, LogLevelSuccess, flashDuration)
	}()
}
