package ui

import (
	"github.com/rivo/tview"
)

// Actions are the callbacks behind the control buttons. Nil entries are
// skipped.
type Actions struct {
	Start  func()
	Color  func()
	Reset  func()
	Export func()
	Quit   func()
}

// ButtonLabels are the control buttons in display order.
var ButtonLabels = []string{"Start", "Color", "Reset", "Export", "Quit"}

// Controls is the button row under the board.
type Controls struct {
	form    *tview.Form
	actions Actions
}

// NewControls creates the button row.
func NewControls(actions Actions) *Controls {
	c := &Controls{actions: actions}

	form := tview.NewForm()
	form.SetHorizontal(true)
	for _, label := range ButtonLabels {
		label := label
		form.AddButton(label, func() { c.run(c.action(label)) })
	}

	form.SetBorder(false)
	form.SetButtonsAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	c.form = form
	return c
}

func (c *Controls) run(f func()) {
	if f != nil {
		f()
	}
}

// Form returns the underlying tview form.
func (c *Controls) Form() *tview.Form {
	return c.form
}

func (c *Controls) action(label string) func() {
	switch label {
	case "Start":
		return c.actions.Start
	case "Color":
		return c.actions.Color
	case "Reset":
		return c.actions.Reset
	case "Export":
		return c.actions.Export
	case "Quit":
		return c.actions.Quit
	}
	return nil
}

// Press runs the action of the button labeled label.
func (c *Controls) Press(label string) bool {
	if c.form.GetButtonIndex(label) < 0 {
		return false
	}
	c.run(c.action(label))
	return true
}
