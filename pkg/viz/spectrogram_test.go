package viz

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func terminalFrame(t *testing.T, rows, cols, width, height int) *Frame {
	t.Helper()
	req := RenderRequest{
		Spectrogram: gridSpectrogram(t, rows, cols),
		Settings:    DefaultSettings(),
		View:        View{Layout: TerminalLayout(height), Zoom: 1, ContainerWidth: float64(width)},
	}
	req.Spectrogram.TimeAxisLabels = []float64{0, 0.5, 1}
	f, err := NewRenderer(1, nil).Build(context.Background(), req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return f
}

func TestTerminalLayoutHeight(t *testing.T) {
	l := TerminalLayout(30)
	if l.HeightCap != float64((30-chromeLines)*2) {
		t.Fatalf("unexpected height cap %v", l.HeightCap)
	}
	if TerminalLayout(1).HeightCap != 4 {
		t.Fatalf("expected a minimum of two rows")
	}
}

func TestGeometryScrollsWideFrames(t *testing.T) {
	// 20 rows fit without capping, so the display is 200 cells wide
	f := terminalFrame(t, 20, 200, 80, 40)
	g := f.Geometry(80, 500)
	if g.Cols != 200 || g.Rows != 10 {
		t.Fatalf("unexpected geometry %+v", g)
	}
	if g.Visible != 80-FreqGutter-1 {
		t.Fatalf("unexpected visible width %d", g.Visible)
	}
	if g.Offset != g.Cols-g.Visible {
		t.Fatalf("offset should clamp to %d, got %d", g.Cols-g.Visible, g.Offset)
	}
	if !g.Scroll {
		t.Fatalf("expected the scroll banner")
	}
}

func TestGeometryCellToDisplay(t *testing.T) {
	f := terminalFrame(t, 20, 200, 80, 40)
	g := f.Geometry(80, 10)
	px, py, ok := g.CellToDisplay(g.Gutter, 3)
	if !ok || px != 10.5 || py != 7 {
		t.Fatalf("unexpected mapping (%v,%v,%v)", px, py, ok)
	}
	if _, _, ok := g.CellToDisplay(0, 3); ok {
		t.Fatalf("the label gutter is not part of the image")
	}
	if _, _, ok := g.CellToDisplay(g.Gutter, g.Rows); ok {
		t.Fatalf("rows below the image are not part of it")
	}
}

func TestSpectrogramViewRender(t *testing.T) {
	f := terminalFrame(t, 8, 16, 80, 40)
	v := NewSpectrogramView(f.Settings.ColorScheme)
	out := v.Render(f, "tone.wav", 80, 0)
	for _, want := range []string{"tone.wav - magnitude Spectrogram", "8000 Hz", "50 Hz", "Click on the spectrogram"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if got := v.Render(nil, "x", 80, 0); got != "No spectrogram data" {
		t.Fatalf("unexpected empty render %q", got)
	}
}

func TestSpectrogramViewHeaderFitsNarrowTerminals(t *testing.T) {
	const width = 30
	f := terminalFrame(t, 20, 200, 80, 40)
	out := NewSpectrogramView(f.Settings.ColorScheme).Render(f, "a rather long recording title.wav", width, 0)

	lines := strings.Split(out, "\n")
	for i := 0; i < 2; i++ {
		if w := lipgloss.Width(lines[i]); w > width {
			t.Fatalf("header line %d is %d cells wide, expected at most %d", i, w, width)
		}
	}
	if !strings.Contains(lines[0], "a rather") {
		t.Fatalf("expected the title on the first line, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "▀") {
		t.Fatalf("expected the raster to start on the third line, got %q", lines[2])
	}
}
