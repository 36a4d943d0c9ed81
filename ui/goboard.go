// Package ui specifies custom controls for tview to play against the AI server in the terminal.
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"aigo-board/config"
	"aigo-board/game"
	"aigo-board/types"
)

// boardLeft is the column offset of the first cell, leaving room for row numbers.
const boardLeft = 4

// BoardView draws the board in a tview box and turns clicks and key presses
// into cell selections. It implements game.View.
type BoardView struct {
	Box *tview.Box

	app    *tview.Application
	status *StatusPanel
	cfg    *config.Config
	styles []tcell.Color

	mu       sync.Mutex
	snap     *types.Snapshot
	blocked  bool
	selX     int
	selY     int
	originX  int
	originY  int
	onSelect func(col, row int)
}

func NewBoardView(app *tview.Application, c *config.Config, status *StatusPanel) *BoardView {
	b := &BoardView{
		Box:    tview.NewBox(),
		app:    app,
		status: status,
		snap:   types.NewSnapshot(),
		selX:   -1,
		selY:   -1,
	}
	b.SetConfig(c)
	b.Box.SetDrawFunc(b.draw)
	b.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		mx, my := event.Position()
		if !b.Box.InRect(mx, my) {
			return action, event
		}
		if app != nil {
			app.SetFocus(b.Box)
		}
		b.Click(mx, my)
		return action, nil
	})
	b.Box.SetInputCapture(b.handleKey)
	return b
}

func (b *BoardView) SetConfig(c *config.Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // 0
		tcell.PaletteColor(c.Theme.Colors.BlackColor),    // 1
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),    // 2
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // 3
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // 4
		tcell.PaletteColor(c.Theme.Colors.LineColor),     // 5
	}
	b.cfg = c
}

// SetSelectFunc sets the handler called when the user picks a cell.
func (b *BoardView) SetSelectFunc(f func(col, row int)) {
	b.mu.Lock()
	b.onSelect = f
	b.mu.Unlock()
}

// Render stores snap and schedules a redraw.
func (b *BoardView) Render(snap *types.Snapshot) {
	cp := *snap
	b.mu.Lock()
	b.snap = &cp
	b.mu.Unlock()
	b.refresh()
}

func (b *BoardView) SetResult(r game.Result) {
	if b.status != nil {
		b.status.SetResult(r)
	}
	b.refresh()
}

func (b *BoardView) SetColor(c types.Color) {
	if b.status != nil {
		b.status.SetColor(c)
	}
	b.refresh()
}

// SetInputBlocked ignores clicks and Enter while a move is being applied.
func (b *BoardView) SetInputBlocked(blocked bool) {
	b.mu.Lock()
	b.blocked = blocked
	b.mu.Unlock()
	if b.status != nil {
		b.status.SetBusy(blocked)
	}
	b.refresh()
}

// InputBlocked reports whether input is currently ignored.
func (b *BoardView) InputBlocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blocked
}

func (b *BoardView) SelectedTile() *types.BoardPos {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selX == -1 && b.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: b.selX, Y: b.selY}
}

func (b *BoardView) MoveSelection(h, v int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selX == -1 && b.selY == -1 {
		b.selX = types.BoardSize / 2
		b.selY = types.BoardSize / 2
		return
	}
	if !types.InBounds(b.selX+h, b.selY+v) {
		return
	}
	b.selX += h
	b.selY += v
}

func (b *BoardView) ResetSelection() {
	b.mu.Lock()
	b.selX = -1
	b.selY = -1
	b.mu.Unlock()
}

// Click maps a screen position to a cell and selects it. Positions off the
// grid are ignored.
func (b *BoardView) Click(screenX, screenY int) {
	b.mu.Lock()
	col, row, ok := cellAt(screenX-b.originX, screenY-b.originY)
	if ok {
		b.selX, b.selY = col, row
	}
	b.mu.Unlock()
	if ok {
		b.selectCell(col, row)
	}
}

// PlaySelected submits the cursor position.
func (b *BoardView) PlaySelected() {
	tile := b.SelectedTile()
	if tile == nil {
		return
	}
	b.selectCell(tile.X, tile.Y)
}

func (b *BoardView) selectCell(col, row int) {
	b.mu.Lock()
	blocked, onSelect := b.blocked, b.onSelect
	b.mu.Unlock()
	if blocked || onSelect == nil {
		return
	}
	onSelect(col, row)
}

func (b *BoardView) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		b.MoveSelection(0, -1)
	case tcell.KeyDown:
		b.MoveSelection(0, 1)
	case tcell.KeyLeft:
		b.MoveSelection(-1, 0)
	case tcell.KeyRight:
		b.MoveSelection(1, 0)
	case tcell.KeyEnter:
		b.PlaySelected()
	case tcell.KeyEsc:
		b.ResetSelection()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			b.MoveSelection(-1, 0)
		case 'j':
			b.MoveSelection(0, 1)
		case 'k':
			b.MoveSelection(0, -1)
		case 'l':
			b.MoveSelection(1, 0)
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

// refresh redraws from the UI goroutine.
func (b *BoardView) refresh() {
	queueDraw(b.app, func() {
		if b.status != nil {
			b.status.refresh()
		}
	})
}

func (b *BoardView) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.originX, b.originY = x+boardLeft, y
	theme := b.cfg.Theme
	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			stone, hasStone := b.snap.StoneAt(col, row)

			bg := b.styles[0]
			fg := b.styles[5]
			var drawRune rune
			switch {
			case hasStone && stone == types.Black:
				drawRune = config.Rune(theme.Symbols.BlackStone)
				fg = b.styles[1]
			case hasStone:
				drawRune = config.Rune(theme.Symbols.WhiteStone)
				fg = b.styles[2]
			case theme.UseGridLines:
				drawRune = getGridRune(col, row, types.BoardSize, types.BoardSize, isHoshiPoint(col, row, types.BoardSize))
			default:
				drawRune = config.Rune(theme.Symbols.BoardSquare)
			}

			if col == b.selX && row == b.selY {
				if theme.DrawCursorBackground {
					bg = b.styles[4]
				} else if !hasStone {
					drawRune = config.Rune(theme.Symbols.Cursor)
					fg = b.styles[3]
				}
			}

			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			if theme.UseGridLines && !hasStone {
				_, stoneRight := b.snap.StoneAt(col+1, row)
				drawGridCell(screen, style, drawRune, col, row, b.originX, b.originY, types.BoardSize, stoneRight)
			} else {
				drawStoneCell(screen, style, drawRune, col, row, b.originX, b.originY)
			}
		}
	}
	b.drawCoordinates(screen, x, y)
	return x, y, types.BoardSize*2 + boardLeft, types.BoardSize + 2
}

// cellAt maps an offset from the board origin to a cell. Each cell is two
// columns wide and one row tall.
func cellAt(dx, dy int) (col, row int, ok bool) {
	if dx < 0 || dy < 0 {
		return -1, -1, false
	}
	col, row = dx/2, dy
	return col, row, types.InBounds(col, row)
}

// cellScreenPos is the offset of the intersection rune of (col, row).
func cellScreenPos(col, row int) (dx, dy int) {
	return col * 2, row
}

// drawStoneCell draws a stone cell (2 characters wide)
func drawStoneCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	dx, dy := cellScreenPos(x, y)
	s.SetContent(l+dx, t+dy, r, nil, c)
	s.SetContent(l+dx+1, t+dy, ' ', nil, c)
}

// drawGridCell draws a cell using box-drawing characters for grid lines
func drawGridCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, boardWidth int, hasStoneRight bool) {
	dx, dy := cellScreenPos(x, y)
	s.SetContent(l+dx, t+dy, r, nil, c)

	rightConn := '─'
	if x == boardWidth-1 || hasStoneRight {
		rightConn = ' '
	}
	s.SetContent(l+dx+1, t+dy, rightConn, nil, c)
}

// getGridRune returns the appropriate box-drawing character for a grid position
func getGridRune(x, y, width, height int, isHoshi bool) rune {
	if isHoshi {
		return '◦'
	}

	isTop := y == 0
	isBottom := y == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// isHoshiPoint checks if a position is a star point on a 9x9 board
func isHoshiPoint(x, y, boardSize int) bool {
	if boardSize != 9 {
		return false
	}
	for _, pos := range [][2]int{{2, 2}, {2, 6}, {4, 4}, {6, 2}, {6, 6}} {
		if x == pos[0] && y == pos[1] {
			return true
		}
	}
	return false
}

// drawCoordinates labels columns with letters below the board and rows with
// numbers on the left. Numbers match the server's row index plus one.
func (b *BoardView) drawCoordinates(s tcell.Screen, x, y int) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(b.styles[4])

	for ix := 0; ix < types.BoardSize; ix++ {
		st := style
		if ix == b.selX {
			st = highlight
		}
		s.SetContent(x+boardLeft+ix*2, y+types.BoardSize+1, rune('A'+ix), nil, st)
		s.SetContent(x+boardLeft+ix*2+1, y+types.BoardSize+1, ' ', nil, st)
	}

	for iy := 0; iy < types.BoardSize; iy++ {
		st := style
		if iy == b.selY {
			st = highlight
		}
		s.SetContent(x+2, y+iy, rune('1'+iy), nil, st)
	}
}

// queueDraw runs f on the UI goroutine and redraws. Updates for the same
// application run in the order they were queued. Without an application f
// runs immediately.
func queueDraw(app *tview.Application, f func()) {
	if app == nil {
		f()
		return
	}
	queueFor(app).push(f)
}
