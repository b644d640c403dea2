package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/querif/nl2rdf/internal/rdf"
)

// Options controls the raster output. FontPath is an optional TTF for node
// labels; without it a built-in bitmap face is used.
type Options struct {
	Width       int
	Height      int
	Iterations  int
	Seed        int64
	FontPath    string
	MaxLabelLen int
}

// Node styling per entity kind, matching the palette the upstream
// visualizer used.
var (
	kindColors = map[rdf.Kind]color.NRGBA{
		rdf.KindResource: {R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF},
		rdf.KindClass:    {R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF},
		rdf.KindLiteral:  {R: 0x98, G: 0xD8, B: 0xC8, A: 0xFF},
	}
	kindRadii = map[rdf.Kind]float64{
		rdf.KindResource: 22,
		rdf.KindClass:    26,
		rdf.KindLiteral:  16,
	}
)

// PNG renders the graph as a raster image: force-directed node positions,
// directed edges with arrowheads, nodes colored and sized by kind, and
// truncated labels.
func PNG(g *rdf.Graph, opts Options) ([]byte, error) {
	if g.Len() == 0 {
		return nil, fmt.Errorf("graph is empty")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 700
	}
	if opts.MaxLabelLen <= 0 {
		opts.MaxLabelLen = 20
	}

	pos := SpringLayout(g, opts.Iterations, opts.Seed)

	const margin = 60.0
	px := func(p Point) (float64, float64) {
		x := margin + p.X*(float64(opts.Width)-2*margin)
		y := margin + p.Y*(float64(opts.Height)-2*margin)
		return x, y
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	face, err := loadFace(opts.FontPath, 13)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	// Edges first so nodes draw on top.
	for _, e := range g.Edges() {
		from, to := pos[e.Subject], pos[e.Object]
		x0, y0 := px(from)
		x1, y1 := px(to)

		dc.SetColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xB0})
		dc.SetLineWidth(1.5)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()

		drawArrowhead(dc, x0, y0, x1, y1, nodeRadius(g, e.Object))
	}

	for _, ent := range g.Entities() {
		x, y := px(pos[ent.ID])
		r := kindRadii[ent.Kind]

		dc.SetColor(kindColors[ent.Kind])
		dc.DrawCircle(x, y, r)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.SetLineWidth(1.2)
		dc.DrawCircle(x, y, r)
		dc.Stroke()

		label := ent.Label
		if label == "" {
			label = ent.ID
		}
		if runes := []rune(label); len(runes) > opts.MaxLabelLen {
			label = string(runes[:opts.MaxLabelLen])
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, x, y-r-8, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeRadius(g *rdf.Graph, id string) float64 {
	if e, ok := g.Entity(id); ok {
		return kindRadii[e.Kind]
	}
	return 16
}

// drawArrowhead places a small triangle at the edge of the target node.
func drawArrowhead(dc *gg.Context, x0, y0, x1, y1, targetRadius float64) {
	angle := math.Atan2(y1-y0, x1-x0)
	tipX := x1 - targetRadius*math.Cos(angle)
	tipY := y1 - targetRadius*math.Sin(angle)

	const size = 8.0
	left := angle + math.Pi - 0.4
	right := angle + math.Pi + 0.4

	dc.MoveTo(tipX, tipY)
	dc.LineTo(tipX+size*math.Cos(left), tipY+size*math.Sin(left))
	dc.LineTo(tipX+size*math.Cos(right), tipY+size*math.Sin(right))
	dc.ClosePath()
	dc.SetColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF})
	dc.Fill()
}

func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
