// Package engine defines the interface to the remote game server.
package engine

import (
	"context"
	"errors"
	"fmt"

	"aigo-board/types"
)

// GameServer is the authoritative game server the client synchronizes with.
// It owns legality, win detection and the AI opponent.
type GameServer interface {
	// GetBoard returns the current board snapshot and result metadata.
	GetBoard(ctx context.Context) (*types.Snapshot, error)

	// PlaceStone submits a move for the human player.
	PlaceStone(ctx context.Context, col, row int, color types.Color) error

	// Reset clears the board on the server.
	Reset(ctx context.Context) error

	// Trigger asks the server to play the AI's move when it is the AI's turn.
	Trigger(ctx context.Context, playerTurn bool) error
}

// ServerError is returned when the server answers with a non-2xx status.
// Message holds the server's user-facing "message" field. Detail holds its
// "error" field, which is diagnostic only.
type ServerError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *ServerError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Message)
	case e.Detail != "":
		return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server responded with status %d", e.StatusCode)
}

// ServerMessage extracts the server's user-facing message from err, if present.
// Detail is never returned.
func ServerMessage(err error) (string, bool) {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message, true
	}
	return "", false
}
