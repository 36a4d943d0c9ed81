package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"aigo-board/types"
)

// Palette holds the colors used by Raster.
type Palette struct {
	Background color.Color
	Line       color.Color
	Black      color.Color
	White      color.Color
}

// DefaultPalette is a wooden board with black grid lines.
var DefaultPalette = Palette{
	Background: color.RGBA{0xdc, 0xb3, 0x5c, 0xff},
	Line:       color.Black,
	Black:      color.Black,
	White:      color.White,
}

// LineWidth is the grid and stone outline width in logical units.
const LineWidth = 2

// Raster draws snapshots onto an in-memory RGBA surface.
type Raster struct {
	geo     Geometry
	palette Palette

	mu  sync.Mutex
	img *image.RGBA
}

// NewRaster creates a raster surface sized for geo.
func NewRaster(geo Geometry, palette Palette) *Raster {
	size := geo.PixelSize()
	return &Raster{
		geo:     geo,
		palette: palette,
		img:     image.NewRGBA(image.Rect(0, 0, size, size)),
	}
}

// Geometry returns the mapping used by the surface.
func (r *Raster) Geometry() Geometry {
	return r.geo
}

// Render clears the surface and draws the grid and every stone of snap.
func (r *Raster) Render(snap *types.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gc := draw2dimg.NewGraphicContext(r.img)
	gc.SetFillColor(r.palette.Background)
	gc.Clear()

	gc.Scale(r.geo.Scale, r.geo.Scale)
	r.drawGrid(gc)

	if snap == nil {
		return
	}
	for col := 0; col < r.geo.GridSize; col++ {
		for row := 0; row < r.geo.GridSize; row++ {
			c, ok := snap.StoneAt(col, row)
			if !ok {
				continue
			}
			r.drawStone(gc, col, row, c)
		}
	}
}

func (r *Raster) drawGrid(gc *draw2dimg.GraphicContext) {
	cell := r.geo.CellSize()
	lo := cell * 0.5
	hi := r.geo.DisplaySize - cell*0.5

	gc.SetLineWidth(LineWidth)
	gc.SetStrokeColor(r.palette.Line)
	for i := 0; i < r.geo.GridSize; i++ {
		pos := (float64(i) + 0.5) * cell

		gc.BeginPath()
		gc.MoveTo(pos, lo)
		gc.LineTo(pos, hi)
		gc.Stroke()

		gc.BeginPath()
		gc.MoveTo(lo, pos)
		gc.LineTo(hi, pos)
		gc.Stroke()
	}
}

func (r *Raster) drawStone(gc *draw2dimg.GraphicContext, col, row int, c types.Color) {
	fill := r.palette.Black
	if c == types.White {
		fill = r.palette.White
	}
	x, y := r.geo.CellCenter(col, row)

	gc.BeginPath()
	draw2dkit.Circle(gc, x, y, r.geo.StoneRadius())
	gc.SetFillColor(fill)
	gc.SetStrokeColor(r.palette.Line)
	gc.SetLineWidth(LineWidth)
	gc.FillStroke()
}

// Image returns a copy of the current surface.
func (r *Raster) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

// WritePNG encodes the current surface as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the current surface to path.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
