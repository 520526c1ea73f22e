package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"sonoviz/pkg/viz"
)

const (
	axisGutter = 72
	axisStrip  = 34
	axisPad    = 8
)

var (
	axisBackground = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	axisText       = color.RGBA{R: 209, G: 213, B: 219, A: 255}
)

// PNGOptions controls EncodePNG. A zero Width keeps the native size.
type PNGOptions struct {
	Width float64
	Axes  bool
}

// RenderImage produces the image EncodePNG would write.
func RenderImage(f *viz.Frame, opts PNGOptions) (image.Image, error) {
	if f == nil || f.Raster == nil {
		return nil, viz.ErrNoData
	}
	var img image.Image = f.Raster
	if opts.Width > 0 {
		d := viz.DefaultLayout().DisplaySize(f.Raster.Native(), f.View.Zoom, opts.Width)
		img = f.Raster.Scaled(int(math.Round(d.Width)), int(math.Round(d.Height)))
	}
	if opts.Axes {
		img = Annotate(img, f)
	}
	return img, nil
}

func EncodePNG(w io.Writer, f *viz.Frame, opts PNGOptions) error {
	img, err := RenderImage(f, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Annotate places img on a canvas with frequency labels on the left and
// time labels underneath.
func Annotate(img image.Image, f *viz.Frame) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w+axisGutter+axisPad, h+axisStrip+axisPad))
	draw.Draw(out, out.Bounds(), image.NewUniform(axisBackground), image.Point{}, draw.Src)
	origin := image.Pt(axisGutter, axisPad)
	draw.Draw(out, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	dr := &font.Drawer{Dst: out, Src: image.NewUniform(axisText), Face: face}

	for _, l := range viz.FrequencyLabels(f.Settings) {
		tw := dr.MeasureString(l.Text).Ceil()
		y := origin.Y + int(l.Fraction*float64(h)) + ascent/2
		y = max(origin.Y+ascent, min(y, origin.Y+h))
		drawText(dr, l.Text, axisGutter-6-tw, y)
	}

	line1 := origin.Y + h + 4 + ascent
	for l := range f.TimeLabels() {
		tw := dr.MeasureString(l.Text).Ceil()
		x := origin.X + int(l.Fraction*float64(w)) - tw/2
		drawText(dr, l.Text, max(0, min(x, out.Bounds().Dx()-tw)), line1)
	}
	for _, l := range viz.EdgeTimeLabels(f.Spectrogram) {
		tw := dr.MeasureString(l.Text).Ceil()
		x := origin.X + int(l.Fraction*float64(w-tw))
		drawText(dr, l.Text, x, line1+ascent+4)
	}
	return out
}

func drawText(dr *font.Drawer, text string, x, y int) {
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
