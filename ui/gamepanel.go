package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rivo/tview"

	"aigo-board/game"
	"aigo-board/types"
)

// StatusPanel displays the player's color, the game phase, the result badge
// and the server alongside the board.
type StatusPanel struct {
	box  *tview.TextView
	hint *tview.TextView

	mu        sync.Mutex
	server    string
	color     types.Color
	result    game.Result
	busy      bool
	focusMode bool
	state     func() game.State
}

// NewStatusPanel creates a panel for a client talking to server.
func NewStatusPanel(server string) *StatusPanel {
	p := &StatusPanel{
		box:    tview.NewTextView(),
		hint:   tview.NewTextView(),
		server: server,
		color:  types.White,
		result: game.ResultDefault,
	}

	p.box.SetDynamicColors(true)
	p.box.SetBorder(false)
	p.box.SetTextAlign(tview.AlignLeft)

	p.hint.SetDynamicColors(true)
	p.hint.SetBorder(true)
	p.hint.SetBorderPadding(0, 0, 1, 1)
	p.hint.SetTitle(" Status ")
	p.hint.SetTitleAlign(tview.AlignLeft)

	p.refresh()
	return p
}

// Box returns the side panel.
func (p *StatusPanel) Box() *tview.TextView {
	return p.box
}

// Hint returns the key binding bar shown under the board.
func (p *StatusPanel) Hint() *tview.TextView {
	return p.hint
}

// SetStateSource sets the function used to read the game phase on refresh.
func (p *StatusPanel) SetStateSource(f func() game.State) {
	p.mu.Lock()
	p.state = f
	p.mu.Unlock()
}

func (p *StatusPanel) SetColor(c types.Color) {
	p.mu.Lock()
	p.color = c
	p.mu.Unlock()
}

func (p *StatusPanel) SetResult(r game.Result) {
	p.mu.Lock()
	p.result = r
	p.mu.Unlock()
}

// SetBusy marks a move as being applied.
func (p *StatusPanel) SetBusy(busy bool) {
	p.mu.Lock()
	p.busy = busy
	p.mu.Unlock()
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (p *StatusPanel) ToggleFocusMode() bool {
	p.mu.Lock()
	p.focusMode = !p.focusMode
	on := p.focusMode
	p.mu.Unlock()
	p.refresh()
	return on
}

// Text returns the side panel and hint contents.
func (p *StatusPanel) Text() (panel, hint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panelText(), p.hintText()
}

// refresh rewrites both views. Call it from the UI goroutine.
func (p *StatusPanel) refresh() {
	panel, hint := p.Text()
	p.box.SetText(panel)
	p.hint.SetText(hint)
}

func phase(s game.State, busy bool) string {
	switch {
	case !s.Started:
		return "Not started"
	case busy || s.InFlight:
		return "Placing stone..."
	case s.Done:
		return "Game over"
	default:
		return "Playing"
	}
}

func stoneMark(c types.Color) string {
	if c == types.Black {
		return "●"
	}
	return "○"
}

func (p *StatusPanel) panelText() string {
	var st game.State
	if p.state != nil {
		st = p.state()
	}

	var text strings.Builder
	text.WriteString("[white::b]Game Info[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&text, "[white]You:[-:-:-] %s %s\n", stoneMark(p.color), p.color)
	if p.color == types.Black {
		text.WriteString("[dimgray]  you move first[-]\n")
	} else {
		text.WriteString("[dimgray]  AI moves first[-]\n")
	}
	fmt.Fprintf(&text, "[white]Phase:[-:-:-] %s\n", phase(st, p.busy))
	fmt.Fprintf(&text, "[white]Result:[-:-:-] %s\n", p.result)
	text.WriteString("\n[white::b]Server[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&text, "%s\n", tview.Escape(p.server))
	return text.String()
}

func (p *StatusPanel) hintText() string {
	if p.focusMode {
		return "  f to toggle"
	}
	return "  hjkl/↑↓←→ move   ⏎ play   s start   c color\n" +
		"  r reset   e export   f focus   q quit"
}

// CreateGameLayout creates the main game layout with the board, the status
// panel and the control bar.
func CreateGameLayout(board *BoardView, status *StatusPanel, controls *Controls) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, status, controls)
	return gameFrame
}

// RebuildNormalLayout restores the normal game layout.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardView, status *StatusPanel, controls *Controls) {
	gameFrame.Clear()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(status.Box(), 26, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(controls.Form(), 3, 0, false)
	gameFrame.AddItem(status.Hint(), 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardView) {
	gameFrame.Clear()

	boardWidth := types.BoardSize*2 + boardLeft
	boardHeight := types.BoardSize + 2

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
