// Package signature implements the freehand signature pad: a bounded raster
// canvas that records pen strokes and exports them as a lossless PNG for
// embedding into the prescription document.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// ErrEmpty is returned when exporting a pad with no strokes. Callers must
// guard export behind IsEmpty; a blank signature is never a valid artifact.
var ErrEmpty = errors.New("signature pad is empty")

// Point is a pen position in canvas pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pad is the drawing surface. Not safe for concurrent use; it models a
// single signer's canvas.
type Pad struct {
	width     int
	height    int
	thickness int
	strokes   [][]Point
}

// NewPad creates a pad with the given pixel dimensions.
func NewPad(width, height int) (*Pad, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pad dimensions %dx%d", width, height)
	}
	return &Pad{width: width, height: height, thickness: 2}, nil
}

// AddStroke records one continuous pen stroke. Points outside the canvas are
// clamped to its bounds. Empty strokes are ignored.
func (p *Pad) AddStroke(points []Point) {
	if len(points) == 0 {
		return
	}
	stroke := make([]Point, len(points))
	for i, pt := range points {
		stroke[i] = p.clamp(pt)
	}
	p.strokes = append(p.strokes, stroke)
}

// Clear erases all strokes and resets the empty state.
func (p *Pad) Clear() {
	p.strokes = nil
}

// IsEmpty reports whether no stroke has been drawn since creation or the
// last Clear.
func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0
}

// ExportPNG renders the current drawing to a PNG: black strokes on a white
// background. Fails with ErrEmpty while no stroke exists.
func (p *Pad) ExportPNG() ([]byte, error) {
	if p.IsEmpty() {
		return nil, ErrEmpty
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.Set(x, y, color.White)
		}
	}

	ink := color.RGBA{A: 255}
	for _, stroke := range p.strokes {
		if len(stroke) == 1 {
			p.stamp(img, stroke[0], ink)
			continue
		}
		for i := 1; i < len(stroke); i++ {
			p.line(img, stroke[i-1], stroke[i], ink)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode signature png: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Pad) clamp(pt Point) Point {
	if pt.X < 0 {
		pt.X = 0
	}
	if pt.X >= p.width {
		pt.X = p.width - 1
	}
	if pt.Y < 0 {
		pt.Y = 0
	}
	if pt.Y >= p.height {
		pt.Y = p.height - 1
	}
	return pt
}

// line draws a straight segment using Bresenham's algorithm, stamping the
// pen tip at each step for thickness.
func (p *Pad) line(img *image.RGBA, a, b Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		p.stamp(img, Point{X: x, Y: y}, c)
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// stamp paints a filled square pen tip centered on pt.
func (p *Pad) stamp(img *image.RGBA, pt Point, c color.RGBA) {
	r := p.thickness / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			x, y := pt.X+dx, pt.Y+dy
			if x >= 0 && x < p.width && y >= 0 && y < p.height {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ValidatePNG checks that data is a decodable PNG image, used to vet
// signature uploads before they reach the document assembler.
func ValidatePNG(data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid signature image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid signature image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}
