// Package sgf writes board positions as SGF FF[4] records.
package sgf

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"aigo-board/types"
)

// Result values for the RE property.
const (
	ResultUnknown = "?"
	ResultDraw    = "0"
)

// Win returns the RE value for a win by c with no score given.
func Win(c types.Color) string {
	if c == types.White {
		return "W+"
	}
	return "B+"
}

// Position is a single board snapshot to export.
type Position struct {
	Snapshot *types.Snapshot
	Player   types.Color // the human player's color
	Result   string      // RE value
	Date     time.Time
}

// sgfCoord converts 0-indexed board coordinates to SGF letter pair.
// (0,0) -> "aa", (3,4) -> "de", (8,8) -> "ii".
func sgfCoord(x, y int) string {
	return string(rune('a'+x)) + string(rune('a'+y))
}

// toPlay is the color whose turn it is in pos.
func toPlay(pos Position) types.Color {
	if pos.Snapshot.IsPlayerTurn {
		return pos.Player
	}
	return pos.Player.Opposite()
}

// WritePosition writes pos as a one-node SGF game with AB/AW setup stones.
func WritePosition(w io.Writer, pos Position) error {
	if pos.Snapshot == nil {
		return fmt.Errorf("no position to write")
	}
	result := pos.Result
	if result == "" {
		result = ResultUnknown
	}
	if !isValidSGFResult(result) {
		return fmt.Errorf("invalid result %q", result)
	}

	pb, pw := "Player", "AI"
	if pos.Player == types.White {
		pb, pw = pw, pb
	}

	var setupBlack, setupWhite []string
	for y := 0; y < types.BoardSize; y++ {
		for x := 0; x < types.BoardSize; x++ {
			c, ok := pos.Snapshot.StoneAt(x, y)
			switch {
			case !ok:
			case c == types.Black:
				setupBlack = append(setupBlack, sgfCoord(x, y))
			default:
				setupWhite = append(setupWhite, sgfCoord(x, y))
			}
		}
	}

	var b strings.Builder

	b.WriteString("(;GM[1]FF[4]CA[UTF-8]")
	b.WriteString("AP[aigo-board:1.0]")
	b.WriteString(fmt.Sprintf("SZ[%d]", types.BoardSize))
	b.WriteString(fmt.Sprintf("PB[%s]", pb))
	b.WriteString(fmt.Sprintf("PW[%s]", pw))
	if !pos.Date.IsZero() {
		b.WriteString(fmt.Sprintf("DT[%s]", pos.Date.Format("2006-01-02")))
	}
	b.WriteString(fmt.Sprintf("RE[%s]", result))
	b.WriteString("\n")

	if len(setupBlack) > 0 {
		b.WriteString("AB")
		for _, c := range setupBlack {
			b.WriteString(fmt.Sprintf("[%s]", c))
		}
	}
	if len(setupWhite) > 0 {
		b.WriteString("AW")
		for _, c := range setupWhite {
			b.WriteString(fmt.Sprintf("[%s]", c))
		}
	}
	if toPlay(pos) == types.White {
		b.WriteString("PL[W]")
	} else {
		b.WriteString("PL[B]")
	}
	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SavePosition writes pos to a new file at path.
func SavePosition(path string, pos Position) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sgf file: %w", err)
	}
	if err := WritePosition(f, pos); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// isValidSGFResult checks if a string is a valid SGF result.
func isValidSGFResult(s string) bool {
	if s == "?" || s == "0" || s == "Draw" || s == "Void" {
		return true
	}
	if len(s) < 2 {
		return false
	}
	if (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	rest := s[2:]
	if rest == "" || rest == "R" || rest == "T" || rest == "F" || rest == "?" {
		return true
	}
	dotSeen := false
	for _, ch := range rest {
		if ch == '.' {
			if dotSeen {
				return false
			}
			dotSeen = true
		} else if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
