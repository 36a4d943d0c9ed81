// Package game holds the client-side game state and the controller that keeps
// it in step with the game server.
package game

import (
	"errors"

	"aigo-board/types"
)

// The text of each error is the message shown to the user.
var (
	ErrNotStarted     = errors.New("game has not started yet, press start before placing a stone")
	ErrMoveInFlight   = errors.New("previous move is still being applied, please wait")
	ErrGameOver       = errors.New("game is over, no more stones can be placed")
	ErrAlreadyStarted = errors.New("game has already started, reset the board first")
)

// Result is the result badge shown next to the board.
type Result int

const (
	// ResultUnchanged leaves the currently displayed badge in place.
	ResultUnchanged Result = iota
	ResultDefault
	ResultWin
	ResultLose
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultDefault:
		return "In progress"
	case ResultWin:
		return "You win"
	case ResultLose:
		return "You lose"
	case ResultDraw:
		return "Draw"
	}
	return ""
}

// State is the client's local view of the game. The server stays the
// authority; Reconcile brings State back in line after every fetch.
type State struct {
	Color    types.Color // the human player's stone color
	Started  bool
	Done     bool
	InFlight bool
}

// NewState returns the state of a freshly loaded client: the human plays white.
func NewState() State {
	return State{Color: types.White}
}

// PlayerFirst reports whether the human moves first, which is the case for black.
func (s State) PlayerFirst() bool {
	return s.Color == types.Black
}

// ToggleColor switches the starting color. It fails once the game has started.
func (s *State) ToggleColor() error {
	if s.Started {
		return ErrAlreadyStarted
	}
	s.Color = s.Color.Opposite()
	s.Done = false
	return nil
}

// Start marks the game as started and clears any previous result.
func (s *State) Start() error {
	if s.Started {
		return ErrAlreadyStarted
	}
	s.Started = true
	s.Done = false
	return nil
}

// BeginMove checks that a move may be sent and marks it in flight.
func (s *State) BeginMove() error {
	switch {
	case !s.Started:
		return ErrNotStarted
	case s.InFlight:
		return ErrMoveInFlight
	case s.Done:
		return ErrGameOver
	}
	s.InFlight = true
	return nil
}

// EndMove clears the in-flight flag.
func (s *State) EndMove() {
	s.InFlight = false
}

// Reset clears the phase flags after the server board has been reset.
func (s *State) Reset() {
	s.Started = false
	s.Done = false
}

// Reconcile derives the phase flags and result badge from a server snapshot.
// It does not modify s.
func Reconcile(s State, snap *types.Snapshot) (State, Result) {
	next := s
	switch {
	case snap.GameResult == types.ResultInProgress:
		next.Done = false
		return next, ResultDefault
	case !s.Started:
		next.Done = false
		return next, ResultUnchanged
	case snap.GameResult == types.ResultDraw:
		next.Done = true
		return next, ResultDraw
	case snap.GameResult == types.ResultDecisive && snap.IsPlayerTurn:
		next.Done = true
		return next, ResultWin
	case snap.GameResult == types.ResultDecisive:
		next.Done = true
		return next, ResultLose
	}
	// unknown result codes leave the flags alone
	return next, ResultUnchanged
}
