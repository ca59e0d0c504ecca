package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/derailed/tview"

	"github.com/acastano/inboxtui/internal/models"
)

const (
	pageCompose = "compose"
	pageEdit    = "edit"
)

// openCompose shows the compose form. reply pre-fills recipient, subject
// and thread from the message being answered.
func (a *App) openCompose(reply *models.Message) {
	draft := models.Draft{From: a.Config.Agent, Priority: models.PriorityNormal}
	if reply != nil {
		draft.To = reply.From
		draft.ThreadID = reply.ThreadID
		if draft.ThreadID == "" {
			draft.ThreadID = reply.ID
		}
		if reply.Subject != "" && !strings.HasPrefix(reply.Subject, "Re: ") {
			draft.Subject = "Re: " + reply.Subject
		} else {
			draft.Subject = reply.Subject
		}
	}

	form := tview.NewForm()
	form.SetBorder(true)
	if reply != nil {
		form.SetTitle(" Reply ")
	} else {
		form.SetTitle(" Compose ")
	}

	priorities := []string{string(models.PriorityLow), string(models.PriorityNormal), string(models.PriorityHigh)}

	a.addRecipientField(form, &draft)
	form.AddInputField("Subject", draft.Subject, 50, nil, func(text string) {
		draft.Subject = text
	})
	form.AddDropDown("Priority", priorities, 1, func(option string, _ int) {
		draft.Priority = models.Priority(option)
	})
	form.AddInputField("Content", "", 50, nil, func(text string) {
		draft.Content = text
	})

	form.AddButton("Send", func() {
		a.submitDraft(draft, form)
	})
	form.AddButton("Cancel", func() {
		a.closeModal(pageCompose)
	})
	form.SetCancelFunc(func() {
		a.closeModal(pageCompose)
	})

	a.showModal(pageCompose, form, 60, 13)
}

// addRecipientField wires the To selector. With an allow-list the selector
// is a dropdown; the draft is initialized from the option actually shown, so
// a reply target outside the list cannot diverge from the visible selection.
func (a *App) addRecipientField(form *tview.Form, draft *models.Draft) {
	if len(a.recipients) == 0 {
		form.AddInputField("To", draft.To, 30, nil, func(text string) {
			draft.To = text
		})
		return
	}
	initial := 0
	for i, r := range a.recipients {
		if r == draft.To {
			initial = i
		}
	}
	draft.To = a.recipients[initial]
	form.AddDropDown("To", a.recipients, initial, func(option string, _ int) {
		draft.To = option
	})
}

// submitDraft validates locally, then sends off the UI goroutine. The form
// stays open on failure so the draft is not lost.
func (a *App) submitDraft(draft models.Draft, form *tview.Form) {
	if strings.TrimSpace(draft.To) == "" {
		a.errorHandler.ShowMessageDirect("Recipient is required", LogLevelWarning)
		return
	}
	if strings.TrimSpace(draft.Content) == "" {
		a.errorHandler.ShowMessageDirect("Content is required", LogLevelWarning)
		return
	}

	a.errorHandler.ShowMessageDirect("Sending…", LogLevelInfo)

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
		defer cancel()
		sent, err := a.inboxService.SendMessage(ctx, draft)

		a.QueueUpdateDraw(func() {
			if err != nil {
				return
			}
			a.closeModal(pageCompose)
			a.model.Prepend(*sent)
			a.refreshList()
		})
		if err != nil {
			a.errorHandler.ShowFlashMessage(a.ctx,
				fmt.Sprintf("Send failed: %v", err), LogLevelError, flashDuration)
			return
		}
		a.errorHandler.ShowFlashMessage(a.ctx,
			fmt.Sprintf("Sent to %s", sent.To), LogLevelSuccess, flashDuration)
	}()
}

// openEdit shows the edit form for the selected message. Ownership is
// checked locally before any network call; the server enforces it again.
func (a *App) openEdit() {
	msg, ok := a.selectedMessage()
	if !ok {
		return
	}
	if msg.From != a.Config.Agent {
		a.errorHandler.ShowMessageDirect("You can only edit messages you sent", LogLevelWarning)
		return
	}

	content := msg.Content
	subject := msg.Subject

	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" Edit message ")
	form.AddInputField("Subject", subject, 50, nil, func(text string) {
		subject = text
	})
	form.AddInputField("Content", content, 50, nil, func(text string) {
		content = text
	})
	form.AddButton("Save", func() {
		a.submitEdit(msg, content, subject)
	})
	form.AddButton("Cancel", func() {
		a.closeModal(pageEdit)
	})
	form.SetCancelFunc(func() {
		a.closeModal(pageEdit)
	})

	a.showModal(pageEdit, form, 60, 11)
}

// submitEdit runs the optimistic edit flow: local apply, store call,
// commit the server document or roll back.
func (a *App) submitEdit(original models.Message, content, subject string) {
	if strings.TrimSpace(content) == "" {
		a.errorHandler.ShowMessageDirect("Content is required", LogLevelWarning)
		return
	}

	patch, ok := a.model.BeginEdit(original.ID, strings.TrimSpace(content), strings.TrimSpace(subject))
	if !ok {
		return
	}
	a.closeModal(pageEdit)
	a.refreshItem(original.ID)

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.Config.GetTimeout())
		defer cancel()
		updated, err := a.inboxService.EditMessage(ctx, original, content, subject)

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.model.Rollback(patch)
				a.refreshItem(original.ID)
				return
			}
			a.model.Commit(patch, updated)
			a.refreshItem(original.ID)
		})
		if err != nil {
			a.errorHandler.ShowFlashMessage(a.ctx,
				fmt.Sprintf("Edit failed, reverted: %v", err), LogLevelError, flashDuration)
			return
		}
		a.errorHandler.ShowFlashMessage(a.ctx, "Message updated", LogLevelSuccess, flashDuration)
	}()
}

// replySelected opens the compose form pre-filled from the selection.
func (a *App) replySelected() {
	msg, ok := a.selectedMessage()
	if !ok {
		return
	}
	a.openCompose(&msg)
}

// showModal centers a primitive over the main page.
func (a *App) showModal(name string, p tview.Primitive, width, height int) {
	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)

	a.Pages.AddPage(name, modal, true, true)
	a.SetFocus(p)
}

func (a *App) closeModal(name string) {
	a.Pages.RemovePage(name)
	a.SetFocus(a.list())
}
