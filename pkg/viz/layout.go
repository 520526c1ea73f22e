package viz

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0
)

// Size is a width/height pair in pixels. Display sizes are fractional.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%d × %d px", int(math.Round(s.Width)), int(math.Round(s.Height)))
}

// Layout holds the container constants used to size the displayed raster.
type Layout struct {
	HeightCap        float64
	ContainerPadding float64
	ScrollPadding    float64
}

func DefaultLayout() Layout {
	return Layout{HeightCap: 550, ContainerPadding: 70, ScrollPadding: 50}
}

// DisplaySize computes the on-screen size of a native raster. Height follows
// zoom up to HeightCap and width keeps the native aspect ratio. When zoomed
// out (zoom < 1) and narrower than the container, the width is stretched to
// fill the available space; at zoom >= 1 a narrow image stays narrow.
func (l Layout) DisplaySize(native Size, zoom, containerWidth float64) Size {
	if native.Empty() {
		return Size{}
	}
	available := containerWidth - l.ContainerPadding
	height := math.Min(l.HeightCap, native.Height*zoom)
	width := native.Width * (height / native.Height)
	if width < available && zoom < 1 {
		width = available
	}
	return Size{Width: width, Height: height}
}

// NeedsHorizontalScroll reports whether the displayed raster is wider than
// the visible scroll area.
func (l Layout) NeedsHorizontalScroll(displayWidth, visibleWidth float64) bool {
	if displayWidth <= 0 {
		return false
	}
	return displayWidth > visibleWidth-l.ScrollPadding
}

type ZoomDirection int

const (
	ZoomIn ZoomDirection = iota + 1
	ZoomOut
)

func ParseZoomDirection(s string) (ZoomDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "+":
		return ZoomIn, true
	case "out", "-":
		return ZoomOut, true
	}
	return 0, false
}

// Zoom steps current by ZoomStep within [MinZoom, MaxZoom]. Unknown
// directions return the clamped current value.
func Zoom(direction ZoomDirection, current float64) float64 {
	switch direction {
	case ZoomIn:
		if current < MaxZoom {
			current += ZoomStep
		}
	case ZoomOut:
		if current > MinZoom {
			current -= ZoomStep
		}
	}
	return ClampZoom(current)
}

// ClampZoom snaps z to the ZoomStep grid and clamps it.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	z = math.Round(z/ZoomStep) * ZoomStep
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
