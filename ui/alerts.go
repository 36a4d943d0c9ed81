package ui

import (
	"github.com/rivo/tview"
)

const alertPage = "alert"

// Alerts shows blocking messages in a modal on top of the root pages. Messages
// arriving while one is shown are queued. It implements game.Notifier.
type Alerts struct {
	app   *tview.Application
	pages *tview.Pages
	modal *tview.Modal

	// only touched on the UI goroutine
	pending []string
	current string
	shown   bool
	prev    tview.Primitive
}

// NewAlerts registers a hidden alert page on pages.
func NewAlerts(app *tview.Application, pages *tview.Pages) *Alerts {
	a := &Alerts{
		app:   app,
		pages: pages,
		modal: tview.NewModal(),
	}
	a.modal.AddButtons([]string{"OK"})
	a.modal.SetBackgroundColor(MenuColors.ModalBG)
	a.modal.SetBorderColor(MenuColors.Border)
	a.modal.SetButtonBackgroundColor(MenuColors.ButtonBG)
	a.modal.SetButtonTextColor(MenuColors.ButtonText)
	a.modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.Dismiss()
	})
	pages.AddPage(alertPage, a.modal, true, false)
	return a
}

// Alert queues msg and shows it once earlier messages are dismissed.
func (a *Alerts) Alert(msg string) {
	queueDraw(a.app, func() {
		a.pending = append(a.pending, msg)
		if !a.shown {
			a.showNext()
		}
	})
}

// Dismiss closes the current message and shows the next queued one.
func (a *Alerts) Dismiss() {
	if !a.shown {
		return
	}
	if len(a.pending) > 0 {
		a.showNext()
		return
	}
	a.shown = false
	a.current = ""
	a.pages.HidePage(alertPage)
	if a.app != nil && a.prev != nil {
		a.app.SetFocus(a.prev)
	}
}

// Current returns the message on screen, if any.
func (a *Alerts) Current() (string, bool) {
	return a.current, a.shown
}

// Pending returns the number of queued messages.
func (a *Alerts) Pending() int {
	return len(a.pending)
}

func (a *Alerts) showNext() {
	a.current, a.pending = a.pending[0], a.pending[1:]
	a.modal.SetText(a.current)
	if !a.shown && a.app != nil {
		a.prev = a.app.GetFocus()
	}
	a.shown = true
	a.pages.ShowPage(alertPage)
	if a.app != nil {
		a.app.SetFocus(a.modal)
	}
}
