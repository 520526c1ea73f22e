package viz

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	markerRadius = 5.0
	markerStroke = 2.0
)

var (
	markerFill = color.NRGBA{R: 255, G: 255, B: 255, A: 178}
	markerRing = color.RGBA{R: 255, A: 255}
)

// ring is an alpha mask covering inner <= d <= outer around a centre
// point, measured to pixel centres.
type ring struct {
	cx, cy       float64
	inner, outer float64
}

func (r *ring) ColorModel() color.Model { return color.AlphaModel }

func (r *ring) Bounds() image.Rectangle {
	o := int(math.Ceil(r.outer))
	x, y := int(math.Floor(r.cx)), int(math.Floor(r.cy))
	return image.Rect(x-o-1, y-o-1, x+o+2, y+o+2)
}

func (r *ring) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-r.cx, float64(y)+0.5-r.cy)
	if d >= r.inner && d <= r.outer {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

// WithSelection returns a copy of the raster with the selection marker drawn
// at the point's native pixel: a translucent white disc with a red outline.
func (r *Raster) WithSelection(p Point) *Raster {
	out := r.Clone()
	cx, cy := float64(p.PixelX), float64(p.PixelY)

	disc := &ring{cx: cx, cy: cy, inner: 0, outer: markerRadius}
	xdraw.DrawMask(out.RGBA, disc.Bounds(), image.NewUniform(markerFill), image.Point{}, disc, disc.Bounds().Min, xdraw.Over)

	edge := &ring{cx: cx, cy: cy, inner: markerRadius - markerStroke/2, outer: markerRadius + markerStroke/2}
	xdraw.DrawMask(out.RGBA, edge.Bounds(), image.NewUniform(markerRing), image.Point{}, edge, edge.Bounds().Min, xdraw.Over)
	return out
}
