package diagram

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

func TestSVG(t *testing.T) {
	b := board.NewBoard()
	svg := SVG(b, Options{Hint: board.D3, ShowMoves: true, ToMove: board.Black})

	if got := strings.Count(svg, `fill="`+colorBlack+`"`); got != 2 {
		t.Errorf("black discs = %d, want 2", got)
	}
	if got := strings.Count(svg, `fill="`+colorWhite+`"`); got != 2 {
		t.Errorf("white discs = %d, want 2", got)
	}
	if got := strings.Count(svg, `fill="`+colorDot+`"`); got != 4 {
		t.Errorf("move dots = %d, want 4", got)
	}
	if got := strings.Count(svg, colorHint); got != 1 {
		t.Errorf("hint markers = %d, want 1", got)
	}

	plain := SVG(b, DefaultOptions())
	if strings.Contains(plain, colorHint) || strings.Contains(plain, colorDot) {
		t.Error("default options drew a marker")
	}
}

func TestRender(t *testing.T) {
	const size = 800 // one pixel per SVG unit
	img, err := Render(board.NewBoard(), Options{Hint: board.D3, ToMove: board.NoColor}, size)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		t.Fatalf("image is %v", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		ok   func(r, g, b uint8) bool
	}{
		{"white disc d4", 350, 350, func(r, g, b uint8) bool { return r > 200 && g > 200 && b > 200 }},
		{"black disc e4", 450, 350, func(r, g, b uint8) bool { return r < 60 && g < 60 && b < 60 }},
		{"empty a1", 50, 50, func(r, g, b uint8) bool { return g > r+50 && g > b+50 }},
		{"hint ring d3", 350 + markRadius, 250, func(r, g, b uint8) bool { return r > 150 && g < 100 }},
		{"hint center d3", 350, 250, func(r, g, b uint8) bool { return g > r+50 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := img.RGBAAt(tc.x, tc.y)
			if !tc.ok(c.R, c.G, c.B) {
				t.Errorf("pixel (%d,%d) = %v", tc.x, tc.y, c)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, board.NewBoard(), DefaultOptions(), 64); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width = %d, want 64", img.Bounds().Dx())
	}

	if _, err := Render(board.NewBoard(), DefaultOptions(), 0); err == nil {
		t.Error("Render accepted size 0")
	}
}
