package viz

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// FreqGutter is the width of the frequency label column.
	FreqGutter = 10
	// lines drawn around the raster by SpectrogramView.Render
	chromeLines = 8
	legendWidth = 32
)

// TerminalLayout sizes the raster in half-block pixels: a cell is one pixel
// wide and two pixels tall, which keeps pixels roughly square.
func TerminalLayout(height int) Layout {
	rows := max(2, height-chromeLines)
	return Layout{
		HeightCap:        float64(rows * 2),
		ContainerPadding: FreqGutter + 1,
		ScrollPadding:    0,
	}
}

// Geometry describes where a frame lands on the terminal grid.
type Geometry struct {
	Gutter    int // columns before the first raster cell
	Cols      int // display width in cells
	PixelRows int // display height in half-block pixels
	Rows      int // display height in cells
	Visible   int // raster columns shown at once
	Offset    int // first displayed raster column
	Scroll    bool
}

// Geometry computes the terminal placement of f for the given width and
// requested scroll offset. The offset is clamped to the scrollable range.
func (f *Frame) Geometry(width, offset int) Geometry {
	cols := int(math.Round(f.Display.Width))
	px := int(math.Round(f.Display.Height))
	avail := max(1, width-FreqGutter-1)
	visible := min(avail, cols)
	return Geometry{
		Gutter:    FreqGutter + 1,
		Cols:      cols,
		PixelRows: px,
		Rows:      (px + 1) / 2,
		Visible:   visible,
		Offset:    clamp(offset, 0, max(0, cols-visible)),
		Scroll:    f.View.Layout.NeedsHorizontalScroll(f.Display.Width, float64(avail)),
	}
}

// CellToDisplay converts a terminal cell, relative to the first raster row,
// into display-space pixel coordinates at the centre of that cell.
func (g Geometry) CellToDisplay(col, row int) (float64, float64, bool) {
	x := col - g.Gutter
	if x < 0 || x >= g.Visible || row < 0 || row >= g.Rows {
		return 0, 0, false
	}
	py := math.Min(float64(row*2+1), float64(g.PixelRows))
	return float64(x+g.Offset) + 0.5, py, true
}

// SpectrogramView draws frames with half-block characters.
type SpectrogramView struct {
	Theme Theme
}

func NewSpectrogramView(colormap string) *SpectrogramView {
	return &SpectrogramView{Theme: ThemeFor(colormap)}
}

// Render draws f for a terminal of the given width, scrolled to offset.
func (v *SpectrogramView) Render(f *Frame, title string, width, offset int) string {
	if f == nil || f.Raster == nil {
		return "No spectrogram data"
	}
	g := f.Geometry(width, offset)
	if g.Cols == 0 || g.Rows == 0 {
		return "No spectrogram data"
	}

	var sb strings.Builder
	text := lipgloss.NewStyle().Foreground(v.Theme.Text)
	muted := lipgloss.NewStyle().Foreground(v.Theme.Muted)

	// the title and banner must stay one line each: mouse rows are
	// counted from the top of the view
	fit := lipgloss.NewStyle().MaxWidth(width)

	sr := fmt.Sprintf("SR: %dHz | Duration: %.2fs", f.Spectrogram.SampleRate, f.Spectrogram.DurationSeconds())
	heading := lipgloss.NewStyle().Bold(true).Foreground(v.Theme.Accent).
		Render(fmt.Sprintf("%s - %s Spectrogram", title, f.Settings.SpectrogramType))
	sb.WriteString(fit.Render(heading+"  "+muted.Render(sr)) + "\n")

	if g.Scroll {
		sb.WriteString(fit.Render(lipgloss.NewStyle().Foreground(v.Theme.Warning).
			Render(fmt.Sprintf("➡ Scroll horizontally (←/→) to view full spectrogram   %s", f.Display))))
	}
	sb.WriteString("\n")

	scaled := f.Raster.Scaled(g.Cols, g.PixelRows)
	gutter := v.gutterLabels(f.Settings, g.Rows)
	markCol, markRow := -1, -1
	if f.Selection != nil {
		native := f.Base.Native()
		markCol = int(math.Floor((float64(f.Selection.PixelX) + 0.5) * f.Display.Width / native.Width))
		markRow = int(math.Floor((float64(f.Selection.PixelY) + 0.5) * f.Display.Height / native.Height / 2))
	}

	for row := 0; row < g.Rows; row++ {
		sb.WriteString(muted.Render(gutter[row]))
		sb.WriteByte(' ')
		for col := g.Offset; col < g.Offset+g.Visible; col++ {
			top := hexOf(scaled.RGBAAt(col, row*2))
			style := lipgloss.NewStyle().Foreground(top)
			if row*2+1 < g.PixelRows {
				style = style.Background(hexOf(scaled.RGBAAt(col, row*2+1)))
			}
			if col == markCol && row == markRow {
				sb.WriteString(style.Foreground(v.Theme.Marker).Bold(true).Render("✛"))
				continue
			}
			sb.WriteString(style.Render("▀"))
		}
		sb.WriteByte('\n')
	}

	pad := strings.Repeat(" ", g.Gutter)
	var labels []AxisLabel
	for l := range f.TimeLabels() {
		labels = append(labels, l)
	}
	axis := []rune(placeLabels(labels, g.Cols))
	sb.WriteString(pad + muted.Render(string(axis[g.Offset:g.Offset+g.Visible])) + "\n")
	sb.WriteString(pad + muted.Render(placeLabels(EdgeTimeLabels(f.Spectrogram), g.Visible)) + "\n")

	sb.WriteString(v.legend(f.Settings))
	sb.WriteString("  " + text.Render(fmt.Sprintf("zoom %.2fx", f.View.Zoom)) + "\n")
	sb.WriteString(muted.Render(f.Settings.String()) + "\n")
	sb.WriteString(v.RenderPoint(f.Selection))
	return sb.String()
}

// RenderPoint draws the selected point panel.
func (v *SpectrogramView) RenderPoint(p *Point) string {
	if p == nil {
		return lipgloss.NewStyle().Foreground(v.Theme.Muted).Italic(true).
			Render("Click on the spectrogram to analyze specific points")
	}
	return lipgloss.NewStyle().Foreground(v.Theme.Highlight).Render(p.String())
}

func (v *SpectrogramView) gutterLabels(s RenderSettings, rows int) []string {
	out := make([]string, rows)
	for i := range out {
		out[i] = strings.Repeat(" ", FreqGutter)
	}
	for _, l := range FrequencyLabels(s) {
		row := int(math.Round(l.Fraction * float64(rows-1)))
		text := l.Text
		if len(text) > FreqGutter {
			text = text[:FreqGutter]
		}
		out[row] = fmt.Sprintf("%*s", FreqGutter, text)
	}
	return out
}

func (v *SpectrogramView) legend(s RenderSettings) string {
	lo, hi := LegendLabels(s)
	muted := lipgloss.NewStyle().Foreground(v.Theme.Muted)

	var sb strings.Builder
	sb.WriteString(muted.Render(fmt.Sprintf("%-8s", GetColormap(s.ColorScheme).Name)) + " ")
	sb.WriteString(muted.Render(lo) + " ")
	for i := 0; i < legendWidth; i++ {
		c := lipgloss.Color(GradientAt(s.ColorScheme, float64(i)/float64(legendWidth-1)).Hex())
		sb.WriteString(lipgloss.NewStyle().Background(c).Render(" "))
	}
	sb.WriteString(" " + muted.Render(hi))
	return sb.String()
}

func hexOf(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
