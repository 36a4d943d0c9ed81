package game

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"aigo-board/engine"
	"aigo-board/types"
)

// GenericMoveError is shown when a move fails without a server message.
const GenericMoveError = "an unknown error occurred while placing the stone"

// View receives everything the controller wants drawn.
// Methods may be called from any goroutine.
type View interface {
	Render(snap *types.Snapshot)
	SetResult(r Result)
	SetColor(c types.Color)
	SetInputBlocked(blocked bool)
}

// Notifier shows blocking messages to the user.
type Notifier interface {
	Alert(msg string)
}

// Controller is the board view controller. It gates user actions on the local
// State, talks to the game server and pushes the results to the View.
// Every operation blocks until its request has completed.
type Controller struct {
	server engine.GameServer
	view   View
	notify Notifier
	log    *zap.SugaredLogger

	mu    sync.Mutex
	state State
	snap  *types.Snapshot
	badge Result
}

// NewController creates a controller in the freshly loaded state.
func NewController(server engine.GameServer, view View, notify Notifier, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Controller{
		server: server,
		view:   view,
		notify: notify,
		log:    log,
		state:  NewState(),
		snap:   types.NewSnapshot(),
		badge:  ResultDefault,
	}
	view.SetColor(c.state.Color)
	view.SetResult(c.badge)
	return c
}

// State returns a copy of the local state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the last board fetched from the server.
func (c *Controller) Snapshot() *types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := *c.snap
	return &snap
}

// Result returns the result badge currently shown.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.badge
}

// MoveInFlight reports whether a move request is outstanding.
func (c *Controller) MoveInFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.InFlight
}

// FetchBoard pulls the board from the server, repaints it and reconciles the
// phase flags. Failures are logged and returned, never retried.
func (c *Controller) FetchBoard(ctx context.Context) error {
	snap, err := c.server.GetBoard(ctx)
	if err != nil {
		c.log.Errorw("fetching board failed", "error", err)
		return err
	}

	c.mu.Lock()
	next, badge := Reconcile(c.state, snap)
	c.state = next
	c.snap = snap
	if badge != ResultUnchanged {
		c.badge = badge
	}
	c.mu.Unlock()

	c.log.Debugw("board fetched", "game_result", snap.GameResult, "is_player_turn", snap.IsPlayerTurn,
		"stones", snap.StoneCount(), "done", next.Done)

	c.view.Render(snap)
	if badge != ResultUnchanged {
		c.view.SetResult(badge)
	}
	return nil
}

// PlaceStone submits a move at (col, row) with the current color. Local
// precondition failures are alerted and returned without contacting the server.
func (c *Controller) PlaceStone(ctx context.Context, col, row int) error {
	c.mu.Lock()
	if err := c.state.BeginMove(); err != nil {
		c.mu.Unlock()
		c.log.Infow("move rejected", "col", col, "row", row, "reason", err)
		c.notify.Alert(err.Error())
		return err
	}
	color := c.state.Color
	c.mu.Unlock()

	c.view.SetInputBlocked(true)
	defer func() {
		c.mu.Lock()
		c.state.EndMove()
		c.mu.Unlock()
		c.view.SetInputBlocked(false)
	}()

	if err := c.server.PlaceStone(ctx, col, row, color); err != nil {
		c.log.Errorw("placing stone failed", "col", col, "row", row, "color", color, "error", err)
		msg, ok := engine.ServerMessage(err)
		if !ok {
			msg = GenericMoveError
		}
		c.notify.Alert(msg)
		return err
	}
	c.log.Infow("stone placed", "col", col, "row", row, "color", color)

	return c.FetchBoard(ctx)
}

// Click handles a click on cell (col, row). Clicks off the board are ignored.
func (c *Controller) Click(ctx context.Context, col, row int) error {
	if !types.InBounds(col, row) {
		return nil
	}
	return c.PlaceStone(ctx, col, row)
}

// ResetBoard resets the server board, clears the phase flags and re-fetches.
// It is rejected while a move is in flight, and moves are rejected while the
// reset is pending. A failed reset is only logged.
func (c *Controller) ResetBoard(ctx context.Context) error {
	c.mu.Lock()
	if c.state.InFlight {
		c.mu.Unlock()
		c.log.Infow("reset rejected", "reason", ErrMoveInFlight)
		c.notify.Alert(ErrMoveInFlight.Error())
		return ErrMoveInFlight
	}
	c.state.InFlight = true
	c.mu.Unlock()

	if err := c.server.Reset(ctx); err != nil {
		c.log.Errorw("resetting board failed", "error", err)
		c.mu.Lock()
		c.state.EndMove()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state.Reset()
	c.state.EndMove()
	c.mu.Unlock()

	err := c.FetchBoard(ctx)
	c.notify.Alert("The board has been reset.")
	return err
}

// TriggerOpponentMove asks the server to play the AI's move when the human
// does not move first, then clears the done flag and re-fetches whatever the
// outcome of the trigger.
func (c *Controller) TriggerOpponentMove(ctx context.Context) error {
	c.mu.Lock()
	playerTurn := c.state.PlayerFirst()
	c.mu.Unlock()

	c.log.Infow("triggering opponent", "is_player_turn", playerTurn)
	if err := c.server.Trigger(ctx, playerTurn); err != nil {
		c.log.Errorw("trigger failed", "error", err)
	}

	c.mu.Lock()
	c.state.Done = false
	c.mu.Unlock()

	return c.FetchBoard(ctx)
}

// Start starts the game and lets the opponent open if it plays black.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	err := c.state.Start()
	c.mu.Unlock()
	if err != nil {
		c.notify.Alert(err.Error())
		return err
	}
	c.notify.Alert("The game has started!")
	return c.TriggerOpponentMove(ctx)
}

// ToggleColor switches the human's stone color before the game starts.
func (c *Controller) ToggleColor() error {
	c.mu.Lock()
	err := c.state.ToggleColor()
	color := c.state.Color
	c.mu.Unlock()
	if err != nil {
		c.notify.Alert(err.Error())
		return err
	}
	c.view.SetColor(color)
	c.notify.Alert(fmt.Sprintf("You play %s.", color))
	return nil
}
