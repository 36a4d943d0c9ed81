// Package types contains shared data structures for aigo-board.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// BoardSize is the fixed grid dimension used by the game server.
const BoardSize = 9

// ErrMalformedBoard is returned when a snapshot does not have the 2x9x9 shape.
var ErrMalformedBoard = errors.New("malformed board snapshot")

// Color is a stone color as understood by the server (the isWhite flag).
type Color int

const (
	Black Color = 0
	White Color = 1
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// GameResult is the server's game_result field.
type GameResult int

const (
	ResultDecisive   GameResult = 0
	ResultDraw       GameResult = 1
	ResultInProgress GameResult = 2
)

func (r GameResult) String() string {
	switch r {
	case ResultDecisive:
		return "decisive"
	case ResultDraw:
		return "draw"
	case ResultInProgress:
		return "in progress"
	}
	return fmt.Sprintf("GameResult(%d)", int(r))
}

// Snapshot is the board state returned by GET /get-board.
// Board is indexed as Board[layer][col][row]; layer 0 holds black stones and
// layer 1 white stones, each cell being 0 or 1.
type Snapshot struct {
	Board        [2][BoardSize][BoardSize]int
	GameResult   GameResult
	IsPlayerTurn bool
}

type snapshotJSON struct {
	Board        [][][]int `json:"board"`
	GameResult   int       `json:"game_result"`
	IsPlayerTurn int       `json:"is_player_turn"`
}

// UnmarshalJSON decodes the server payload and checks the board shape.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Board) != 2 {
		return fmt.Errorf("%w: %d layers", ErrMalformedBoard, len(raw.Board))
	}
	var board [2][BoardSize][BoardSize]int
	for layer := range raw.Board {
		if len(raw.Board[layer]) != BoardSize {
			return fmt.Errorf("%w: layer %d has %d columns", ErrMalformedBoard, layer, len(raw.Board[layer]))
		}
		for col := range raw.Board[layer] {
			if len(raw.Board[layer][col]) != BoardSize {
				return fmt.Errorf("%w: layer %d column %d has %d cells", ErrMalformedBoard, layer, col, len(raw.Board[layer][col]))
			}
			copy(board[layer][col][:], raw.Board[layer][col])
		}
	}
	s.Board = board
	s.GameResult = GameResult(raw.GameResult)
	s.IsPlayerTurn = raw.IsPlayerTurn != 0
	return nil
}

// MarshalJSON encodes the snapshot in the server's wire format.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	raw := snapshotJSON{
		Board:      make([][][]int, 2),
		GameResult: int(s.GameResult),
	}
	if s.IsPlayerTurn {
		raw.IsPlayerTurn = 1
	}
	for layer := range s.Board {
		raw.Board[layer] = make([][]int, BoardSize)
		for col := range s.Board[layer] {
			raw.Board[layer][col] = append([]int(nil), s.Board[layer][col][:]...)
		}
	}
	return json.Marshal(raw)
}

// StoneAt returns the color of the stone at (col, row), if any.
// A cell flagged in both layers is reported as black.
func (s *Snapshot) StoneAt(col, row int) (Color, bool) {
	if !InBounds(col, row) {
		return Black, false
	}
	if s.Board[Black][col][row] != 0 {
		return Black, true
	}
	if s.Board[White][col][row] != 0 {
		return White, true
	}
	return Black, false
}

// Set places (or clears) a stone flag on the given layer.
func (s *Snapshot) Set(col, row int, c Color, present bool) {
	v := 0
	if present {
		v = 1
	}
	s.Board[c][col][row] = v
}

// StoneCount returns the number of occupied cells.
func (s *Snapshot) StoneCount() int {
	n := 0
	for col := 0; col < BoardSize; col++ {
		for row := 0; row < BoardSize; row++ {
			if _, ok := s.StoneAt(col, row); ok {
				n++
			}
		}
	}
	return n
}

// Empty returns true if no cell is occupied.
func (s *Snapshot) Empty() bool {
	return s.StoneCount() == 0
}

// BoardPos represents a position on the board.
type BoardPos struct {
	X int
	Y int
}

// InBounds reports whether (col, row) lies on the 9x9 grid.
func InBounds(col, row int) bool {
	return col >= 0 && col < BoardSize && row >= 0 && row < BoardSize
}

// NewSnapshot returns an empty in-progress snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{GameResult: ResultInProgress}
}
