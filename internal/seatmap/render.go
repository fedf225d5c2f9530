package seatmap

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// DefaultGridSize is the spacing of the background grid, in canvas units.
const DefaultGridSize = 20

// minGridSize keeps the line count of a MaxDimension grid bounded.
const minGridSize = 5

// RenderOptions controls the SVG output. Width and Height are the output
// size; zero means the document's own size. Neither may exceed
// MaxDimension. The grid is purely cosmetic.
type RenderOptions struct {
	Width    float64
	Height   float64
	Grid     bool
	GridSize int
}

// Render writes doc as SVG. The document's coordinate space is mapped onto
// the output size through the viewBox, so objects keep their stored
// coordinates whatever the output size is. A nil doc renders a blank canvas.
func Render(w io.Writer, doc *Document, opts RenderOptions) error {
	docW, docH := 0.0, 0.0
	if doc != nil {
		docW, docH = doc.Width, doc.Height
	}
	outW, outH := opts.Width, opts.Height
	if outW <= 0 || outH <= 0 {
		outW, outH = docW, docH
	}
	if docW <= 0 || docH <= 0 {
		docW, docH = outW, outH
	}
	if !sizeOK(outW, outH, MaxDimension, MaxDimension) || !sizeOK(docW, docH, MaxDimension, MaxDimension) {
		return fmt.Errorf("render: %w", ErrInvalidViewport)
	}

	canvas := svg.New(w)
	canvas.Startview(px(outW), px(outH), 0, 0, px(docW), px(docH))
	canvas.Rect(0, 0, px(docW), px(docH), "fill:#FFFFFF")

	if opts.Grid {
		size := opts.GridSize
		if size < minGridSize {
			size = DefaultGridSize
		}
		canvas.Grid(0, 0, px(docW), px(docH), size, "stroke:#E0E0E0;stroke-width:1")
	}

	if doc != nil {
		for _, obj := range doc.Objects {
			g, _, err := obj.group()
			if err != nil {
				return fmt.Errorf("render %s: %w", obj.InstanceID, err)
			}
			renderGroup(canvas, g)
		}
	}

	canvas.End()
	return nil
}

func renderGroup(canvas *svg.SVG, g *SceneGroup) {
	sx, sy := g.scale()
	cx := g.Left + g.Width*sx/2
	cy := g.Top + g.Height*sy/2

	canvas.Gid(g.InstanceID)
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%s,%s)", num(cx), num(cy), num(sx), num(sy)))

	p := g.Primitive
	flipped := p.FlipX || p.FlipY
	if flipped {
		fx, fy := 1, 1
		if p.FlipX {
			fx = -1
		}
		if p.FlipY {
			fy = -1
		}
		c := p.Box().Center()
		canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%d,%d) translate(%s,%s)",
			num(c.X), num(c.Y), fx, fy, num(-c.X), num(-c.Y)))
	}
	renderPrimitive(canvas, p)
	if flipped {
		canvas.Gend()
	}

	l := g.Label
	if l.Text != "" {
		canvas.Text(px(l.Left+l.Width/2), px(l.Top+l.Height/2), l.Text, labelStyle(l))
	}

	canvas.Gend()
	canvas.Gend()
}

func renderPrimitive(canvas *svg.SVG, p Primitive) {
	style := primitiveStyle(p)
	switch p.Kind {
	case KindRect:
		canvas.Rect(px(p.Left), px(p.Top), px(p.Width), px(p.Height), style)
	case KindCircle:
		c := p.Box().Center()
		r := p.Radius
		if r <= 0 {
			r = math.Min(p.Width, p.Height) / 2
		}
		canvas.Circle(px(c.X), px(c.Y), px(r), style)
	case KindTriangle:
		xs := []int{px(p.Left), px(p.Left + p.Width/2), px(p.Left + p.Width)}
		ys := []int{px(p.Top + p.Height), px(p.Top), px(p.Top + p.Height)}
		canvas.Polygon(xs, ys, style)
	case KindPolygon:
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for i, pt := range p.Points {
			xs[i] = px(p.Left + pt.X)
			ys[i] = px(p.Top + pt.Y)
		}
		canvas.Polygon(xs, ys, style)
	}
}

func primitiveStyle(p Primitive) string {
	fill := p.Fill
	if fill == "" {
		fill = "none"
	}
	if p.Stroke == "" || p.StrokeWidth <= 0 {
		return "fill:" + fill + ";stroke:none"
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", fill, p.Stroke, num(p.StrokeWidth))
}

func labelStyle(l Label) string {
	fill := l.Fill
	if fill == "" {
		fill = "#000000"
	}
	family := l.FontFamily
	if family == "" {
		family = labelFont
	}
	return fmt.Sprintf("fill:%s;font-size:%spx;font-family:%s;text-anchor:middle;dominant-baseline:central",
		fill, num(l.FontSize), family)
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
