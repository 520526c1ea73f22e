package audio

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sonoviz/pkg/export"
	"sonoviz/pkg/viz"
)

// render submits the current snapshot to the renderer.
func (p *Processor) render() {
	p.mu.Lock()
	if p.spectrogram == nil {
		p.mu.Unlock()
		return
	}
	req := viz.RenderRequest{
		Spectrogram: p.spectrogram,
		Settings:    p.settings,
		View:        p.view,
		Selection:   p.selection,
	}
	if p.status.State != StateAnalyzing {
		p.setStatusLocked(StateRendering, "Rendering spectrogram...")
	}
	p.mu.Unlock()

	p.renderer.Submit(p.ctx, req, p.rendered)
}

func (p *Processor) rendered(f *viz.Frame, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, viz.ErrSuperseded) {
		return
	}
	if err != nil {
		p.setError("Render failed", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// zoom or selection may have moved on while the raster was built
	if f.View != p.view {
		if next := p.renderer.Relayout(p.view); next != nil {
			f = next
		}
	}
	if !samePoint(f.Selection, p.selection) {
		if next := p.renderer.Select(p.selection); next != nil {
			f = next
		}
	}
	if p.status.State == StateRendering {
		p.setStatusLocked(StateIdle, fmt.Sprintf("Spectrogram ready: %s", f.Display))
		p.status.Progress = 1
	}
}

func samePoint(a, b *viz.Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Frame returns the latest rendered frame or nil.
func (p *Processor) Frame() *viz.Frame {
	return p.renderer.Current()
}

func (p *Processor) View() viz.View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Zoom steps the zoom level and returns the new value.
func (p *Processor) Zoom(dir viz.ZoomDirection) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Zoom = viz.Zoom(dir, p.view.Zoom)
	p.renderer.Relayout(p.view)
	return p.view.Zoom
}

// SetZoom sets the zoom level, snapped and clamped to the allowed range.
func (p *Processor) SetZoom(z float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Zoom = viz.ClampZoom(z)
	p.renderer.Relayout(p.view)
	return p.view.Zoom
}

func (p *Processor) ResetZoom() float64 {
	return p.SetZoom(viz.DefaultZoom)
}

// SetContainer updates the space the spectrogram is laid out in.
func (p *Processor) SetContainer(width float64, layout viz.Layout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view.ContainerWidth == width && p.view.Layout == layout {
		return
	}
	p.view.ContainerWidth = width
	p.view.Layout = layout
	p.renderer.Relayout(p.view)
}

// Pick selects the point under a display-space position.
func (p *Processor) Pick(px, py float64) (viz.Point, bool) {
	f := p.renderer.Current()
	pt, ok := f.Pick(px, py)
	if !ok {
		return viz.Point{}, false
	}
	p.setSelection(&pt)
	return pt, true
}

// PickAt selects the point at a time and frequency.
func (p *Processor) PickAt(timeSec, freqHz float64) (viz.Point, bool) {
	f := p.renderer.Current()
	if f == nil {
		return viz.Point{}, false
	}
	x, y, ok := viz.PointToPixel(timeSec, freqHz, f.Display, f.Spectrogram, &f.Settings)
	if !ok {
		return viz.Point{}, false
	}
	return p.Pick(x, y)
}

func (p *Processor) ClearSelection() {
	p.setSelection(nil)
}

func (p *Processor) Selection() *viz.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selection
}

func (p *Processor) setSelection(pt *viz.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = pt
	p.renderer.Select(pt)
	if pt != nil {
		p.logger.Debug("point selected", zap.Stringer("point", pt))
	}
}

// Export writes the current frame, returning the resolved destination.
func (p *Processor) Export(ctx context.Context, kind export.Kind, dest string, png export.PNGOptions) (string, error) {
	f := p.renderer.Current()
	if f == nil {
		return "", viz.ErrNoData
	}
	p.mu.RLock()
	opts := export.Options{Filename: p.fileName, Dir: p.exportDir, PNG: png}
	p.mu.RUnlock()
	return p.exporter.Export(ctx, kind, dest, f, opts)
}

// GetVisualization draws the current frame for a terminal of the given
// width, or the progress of whatever is still running when there is no
// frame yet.
func (p *Processor) GetVisualization(width, offset int) string {
	status := p.Status()
	f := p.renderer.Current()

	if f == nil {
		switch status.State {
		case StateLoading:
			if status.TotalBytes > 0 {
				return fmt.Sprintf("%s %.1f%%\n", status.Message, status.Progress*100)
			}
			return status.Message + "\n"
		case StateAnalyzing, StateRendering:
			return status.Message + "\n"
		}
		if status.Err != nil {
			return status.Message + "\n"
		}
		return "No spectrogram data\n"
	}

	view := viz.NewSpectrogramView(f.Settings.ColorScheme)
	return view.Render(f, p.Title(), width, offset)
}
