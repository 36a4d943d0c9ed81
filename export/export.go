// Package export saves the current board as a PNG image and an SGF record.
package export

import (
	"fmt"
	"time"

	"aigo-board/game"
	"aigo-board/render"
	"aigo-board/sgf"
	"aigo-board/types"
)

// PathFunc returns where a file called name should be written.
type PathFunc func(name string) (string, error)

// Board is the state being exported.
type Board struct {
	Snapshot *types.Snapshot
	Player   types.Color
	Result   game.Result
}

// Files are the paths written by Save.
type Files struct {
	PNG string
	SGF string
}

// SGFResult maps the result badge to an SGF RE value.
func SGFResult(player types.Color, r game.Result) string {
	switch r {
	case game.ResultWin:
		return sgf.Win(player)
	case game.ResultLose:
		return sgf.Win(player.Opposite())
	case game.ResultDraw:
		return sgf.ResultDraw
	}
	return sgf.ResultUnknown
}

// Save renders b with raster and writes both files, named after now.
func Save(b Board, raster *render.Raster, now time.Time, pathFor PathFunc) (Files, error) {
	var files Files
	base := "aigo_" + now.Format("2006-01-02_150405")

	pngPath, err := pathFor(base + ".png")
	if err != nil {
		return files, fmt.Errorf("locate png export: %w", err)
	}
	raster.Render(b.Snapshot)
	if err := raster.SavePNG(pngPath); err != nil {
		return files, err
	}
	files.PNG = pngPath

	sgfPath, err := pathFor(base + ".sgf")
	if err != nil {
		return files, fmt.Errorf("locate sgf export: %w", err)
	}
	pos := sgf.Position{
		Snapshot: b.Snapshot,
		Player:   b.Player,
		Result:   SGFResult(b.Player, b.Result),
		Date:     now,
	}
	if err := sgf.SavePosition(sgfPath, pos); err != nil {
		return files, err
	}
	files.SGF = sgfPath
	return files, nil
}
