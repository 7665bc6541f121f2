// Package diagram draws board positions as SVG and PNG images.
package diagram

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/hailam/othelloplay/internal/board"
)

// Geometry of the SVG in user units.
const (
	cellSize   = 100
	boardSize  = 8 * cellSize
	discRadius = 42
	gridInset  = 2
	markRadius = 20
	markWidth  = 10
	dotRadius  = 8
)

// Colors
const (
	colorGrid  = "#0b3d1c"
	colorCell  = "#1b7a3a"
	colorBlack = "#141414"
	colorWhite = "#f5f5f5"
	colorDot   = "#0f4d24"
	colorHint  = "#d62828"
)

// renderScale is the oversampling factor used before downscaling.
const renderScale = 3

// Options controls what is drawn besides the discs.
type Options struct {
	// Hint marks a square with a ring (the advice marker). NoSquare for none.
	Hint board.Square
	// ShowMoves dots the legal moves of ToMove.
	ShowMoves bool
	ToMove    board.Color
}

// DefaultOptions draws the discs only.
func DefaultOptions() Options {
	return Options{Hint: board.NoSquare, ToMove: board.NoColor}
}

// SVG returns the board as an SVG document.
func SVG(b board.Board, opts Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		boardSize, boardSize, boardSize, boardSize)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, boardSize, boardSize, colorGrid)

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := sq.Col()*cellSize, sq.Row()*cellSize
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
			x+gridInset, y+gridInset, cellSize-2*gridInset, cellSize-2*gridInset, colorCell)
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		var fill string
		switch b.At(sq) {
		case board.BlackDisc:
			fill = colorBlack
		case board.WhiteDisc:
			fill = colorWhite
		default:
			continue
		}
		cx, cy := center(sq)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`, cx, cy, discRadius, fill)
	}

	if opts.ShowMoves && opts.ToMove != board.NoColor {
		for _, sq := range b.LegalMoves(opts.ToMove) {
			cx, cy := center(sq)
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`, cx, cy, dotRadius, colorDot)
		}
	}

	if opts.Hint.IsValid() {
		cx, cy := center(opts.Hint)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="none" stroke="%s" stroke-width="%d"/>`,
			cx, cy, markRadius, colorHint, markWidth)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func center(sq board.Square) (int, int) {
	return sq.Col()*cellSize + cellSize/2, sq.Row()*cellSize + cellSize/2
}

// Render rasterizes the board into a size x size image.
func Render(b board.Board, opts Options, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(b, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}

	// Render at higher resolution, then scale down
	renderSize := size * renderScale
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	big := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, big, big.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), big, big.Bounds(), draw.Over, nil)
	return dst, nil
}

// WritePNG renders the board and encodes it as PNG.
func WritePNG(w io.Writer, b board.Board, opts Options, size int) error {
	img, err := Render(b, opts, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
