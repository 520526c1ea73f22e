package viz

import (
	"context"
	"errors"
	"iter"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// View carries the presentation parameters a frame is laid out for.
type View struct {
	Layout         Layout
	Zoom           float64
	ContainerWidth float64
}

// RenderRequest is everything needed to produce a Frame.
type RenderRequest struct {
	Spectrogram *Spectrogram
	Settings    RenderSettings
	View        View
	Selection   *Point
}

// Frame is a published render. Frames are never modified after they are
// published; relayout and selection changes produce new frames.
type Frame struct {
	Spectrogram *Spectrogram
	Settings    RenderSettings
	View        View
	Base        *Raster
	Raster      *Raster
	Display     Size
	Selection   *Point
	Generation  uint64
	Elapsed     time.Duration
}

// TimeLabels yields the time axis captions for this frame.
func (f *Frame) TimeLabels() iter.Seq[AxisLabel] {
	return TimeLabels(f.Spectrogram.TimeAxisLabels)
}

// Pick maps a display-space position to a Point on this frame.
func (f *Frame) Pick(px, py float64) (Point, bool) {
	if f == nil {
		return Point{}, false
	}
	return PixelToPoint(px, py, f.Display, f.Spectrogram, &f.Settings)
}

// Renderer builds frames off the caller's goroutine. Each Submit cancels the
// build in flight, and only the newest generation is ever published.
type Renderer struct {
	workers int
	logger  *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     atomic.Uint64
	current atomic.Pointer[Frame]
}

func NewRenderer(workers int, logger *zap.Logger) *Renderer {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{workers: workers, logger: logger}
}

// Current returns the latest published frame or nil.
func (r *Renderer) Current() *Frame {
	return r.current.Load()
}

// Build renders synchronously and publishes the result unless a newer
// request arrived meanwhile.
func (r *Renderer) Build(ctx context.Context, req RenderRequest) (*Frame, error) {
	gen := r.begin(nil)
	f, err := r.build(ctx, req, gen)
	if err != nil {
		return nil, err
	}
	if !r.publish(f) {
		return f, ErrSuperseded
	}
	return f, nil
}

// Submit starts a background build. done, if set, is called exactly once
// from the build goroutine with the frame or the error.
func (r *Renderer) Submit(parent context.Context, req RenderRequest, done func(*Frame, error)) {
	ctx, cancel := context.WithCancel(parent)
	gen := r.begin(cancel)

	go func() {
		defer cancel()
		f, err := r.build(ctx, req, gen)
		if err == nil && !r.publish(f) {
			err = ErrSuperseded
		}
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrSuperseded) {
			r.logger.Warn("render failed", zap.Uint64("generation", gen), zap.Error(err))
		}
		if done != nil {
			done(f, err)
		}
	}()
}

// Cancel aborts any build in flight and drops the published frame.
func (r *Renderer) Cancel() {
	r.begin(nil)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.Store(nil)
}

// Relayout republishes the current frame for a new view without
// rebuilding the raster.
func (r *Renderer) Relayout(v View) *Frame {
	return r.derive(func(f *Frame) {
		f.View = v
		f.Display = v.Layout.DisplaySize(f.Base.Native(), v.Zoom, v.ContainerWidth)
	})
}

// Select republishes the current frame with a new selection marker, or none
// when p is nil.
func (r *Renderer) Select(p *Point) *Frame {
	return r.derive(func(f *Frame) {
		f.Selection = p
		f.Raster = f.Base
		if p != nil {
			f.Raster = f.Base.WithSelection(*p)
		}
	})
}

func (r *Renderer) derive(apply func(*Frame)) *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.current.Load()
	if cur == nil {
		return nil
	}
	next := *cur
	apply(&next)
	r.current.Store(&next)
	return &next
}

func (r *Renderer) begin(cancel context.CancelFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	return r.gen.Add(1)
}

func (r *Renderer) publish(f *Frame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.Generation != r.gen.Load() {
		return false
	}
	r.current.Store(f)
	return true
}

func (r *Renderer) build(ctx context.Context, req RenderRequest, gen uint64) (*Frame, error) {
	if req.Spectrogram == nil || req.Spectrogram.Matrix == nil {
		return nil, ErrNoData
	}
	start := time.Now()
	base, err := buildRaster(ctx, req.Spectrogram.Matrix, req.Settings, r.workers)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		Spectrogram: req.Spectrogram,
		Settings:    req.Settings,
		View:        req.View,
		Base:        base,
		Raster:      base,
		Selection:   req.Selection,
		Generation:  gen,
	}
	f.Display = req.View.Layout.DisplaySize(base.Native(), req.View.Zoom, req.View.ContainerWidth)
	if req.Selection != nil {
		f.Raster = base.WithSelection(*req.Selection)
	}
	f.Elapsed = time.Since(start)

	r.logger.Debug("raster built",
		zap.Uint64("generation", gen),
		zap.Int("rows", req.Spectrogram.Matrix.Rows()),
		zap.Int("cols", req.Spectrogram.Matrix.Cols()),
		zap.Duration("elapsed", f.Elapsed))
	return f, nil
}
