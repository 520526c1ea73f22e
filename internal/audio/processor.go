package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"sonoviz/pkg/export"
	"sonoviz/pkg/viz"
)

type ProcessingState int

const (
	StateIdle ProcessingState = iota
	StateLoading
	StateAnalyzing
	StateRendering
)

func (s ProcessingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateAnalyzing:
		return "analyzing"
	case StateRendering:
		return "rendering"
	default:
		return "unknown"
	}
}

type ProcessingStatus struct {
	State       ProcessingState
	Message     string
	Progress    float64
	CanCancel   bool
	StartTime   time.Time
	BytesLoaded int64
	TotalBytes  int64
	Err         error
}

// Busy reports whether a load, analysis or render is in progress.
func (s ProcessingStatus) Busy() bool {
	return s.State != StateIdle
}

// Analyzer turns audio into a spectrogram. *api.Client satisfies it.
type Analyzer interface {
	GenerateSpectrogram(ctx context.Context, audio io.Reader, filename string, s viz.RenderSettings) (*viz.Spectrogram, error)
}

type Options struct {
	Debounce   time.Duration
	Workers    int
	ExportDir  string
	Layout     viz.Layout
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Processor owns the loaded audio, the current settings snapshot and the
// spectrogram, and orchestrates analysis, rendering and export.
type Processor struct {
	mu sync.RWMutex

	analyzer   Analyzer
	exporter   *export.Exporter
	renderer   *viz.Renderer
	debouncer  *viz.Debouncer
	logger     *zap.Logger
	httpClient *http.Client
	now        func() time.Time
	exportDir  string

	ctx    context.Context
	cancel context.CancelFunc

	fileName    string
	currentFile []byte
	metadata    *Metadata

	settings    viz.RenderSettings
	analyzed    viz.RenderSettings
	spectrogram *viz.Spectrogram
	selection   *viz.Point
	view        viz.View
	presets     []viz.Preset

	status     ProcessingStatus
	loadCancel context.CancelFunc
	fetchGen   uint64
}

func NewProcessor(analyzer Analyzer, exporter *export.Exporter, opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewExporter(nil, logger)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	layout := opts.Layout
	if layout == (viz.Layout{}) {
		layout = viz.DefaultLayout()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		analyzer:   analyzer,
		exporter:   exporter,
		renderer:   viz.NewRenderer(opts.Workers, logger.Named("renderer")),
		debouncer:  viz.NewDebouncer(opts.Debounce),
		logger:     logger,
		httpClient: httpClient,
		now:        time.Now,
		exportDir:  opts.ExportDir,
		ctx:        ctx,
		cancel:     cancel,
		settings:   viz.DefaultSettings(),
		view:       viz.View{Layout: layout, Zoom: viz.DefaultZoom},
		presets:    viz.Presets(),
	}
}

// LoadFile reads a local file or URL in the background and requests a
// spectrogram for it once loaded.
func (p *Processor) LoadFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("no file specified")
	}
	p.logger.Info("loading file", zap.String("path", path))
	p.CancelProcessing()

	ctx, cancel := context.WithCancel(p.ctx)
	p.mu.Lock()
	p.resetLocked()
	p.loadCancel = cancel
	p.status = ProcessingStatus{
		State:     StateLoading,
		Message:   "Loading file...",
		CanCancel: true,
		StartTime: p.now(),
	}
	p.mu.Unlock()

	go func() {
		var data []byte
		var err error
		if isURL(path) {
			data, err = p.loadFromURL(ctx, path)
		} else {
			data, err = p.loadFromFile(ctx, path)
		}
		if err != nil {
			if ctx.Err() == nil {
				p.setError("Load failed", err)
			}
			return
		}

		name := filepath.Base(path)
		md, err := ExtractMetadata(name, data)
		if err != nil {
			p.logger.Debug("no usable tags", zap.String("file", name), zap.Error(err))
		}

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		p.fileName = name
		p.currentFile = data
		p.metadata = md
		p.mu.Unlock()

		p.logger.Info("file loaded", zap.String("file", name), zap.Int("bytes", len(data)))
		p.analyze(ctx)
	}()

	return nil
}

// OpenExport replaces the spectrogram and settings with a JSON export.
// No audio is attached afterwards, so settings changes render locally.
func (p *Processor) OpenExport(path string) error {
	doc, err := export.ReadDocument(path)
	if err != nil {
		return err
	}
	sg, err := doc.Spectrogram()
	if err != nil {
		return err
	}
	settings := doc.Settings
	if err := settings.Validate(); err != nil {
		return err
	}
	p.CancelProcessing()

	p.mu.Lock()
	p.resetLocked()
	p.fileName = doc.Metadata.Filename
	if p.fileName == "" {
		p.fileName = filepath.Base(path)
	}
	p.settings = settings
	p.analyzed = settings
	p.spectrogram = sg
	p.mu.Unlock()

	p.logger.Info("export opened", zap.String("path", path), zap.Int("rows", sg.Matrix.Rows()), zap.Int("cols", sg.Matrix.Cols()))
	p.render()
	return nil
}

// Unload drops the loaded audio and spectrogram.
func (p *Processor) Unload() {
	p.CancelProcessing()
	p.mu.Lock()
	p.resetLocked()
	p.setStatusLocked(StateIdle, "Audio unloaded")
	p.mu.Unlock()
}

func (p *Processor) resetLocked() {
	p.renderer.Cancel()
	p.fileName = ""
	p.currentFile = nil
	p.metadata = nil
	p.spectrogram = nil
	p.selection = nil
	p.fetchGen++
}

// CancelProcessing aborts a load, a pending refetch and any render in flight.
func (p *Processor) CancelProcessing() {
	p.debouncer.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadCancel != nil {
		p.loadCancel()
		p.loadCancel = nil
	}
	p.fetchGen++
	if p.status.Busy() {
		p.setStatusLocked(StateIdle, "Processing cancelled")
	}
}

// ApplySettings validates the snapshot produced by fn and makes it current.
// The local data is re-rendered straight away; when the change affects the
// analysis and audio is loaded a debounced refetch is scheduled, which is
// reported through refetch.
func (p *Processor) ApplySettings(fn func(viz.RenderSettings) viz.RenderSettings) (refetch bool, err error) {
	p.mu.Lock()
	next := fn(p.settings)
	if err := next.Validate(); err != nil {
		p.mu.Unlock()
		return false, err
	}
	p.settings = next
	refetch = len(p.currentFile) > 0 && next.NeedsAnalysis(p.analyzed)
	hasData := p.spectrogram != nil
	p.mu.Unlock()

	p.logger.Debug("settings applied", zap.String("settings", next.String()), zap.Bool("refetch", refetch))
	if hasData {
		p.render()
	}
	if refetch {
		p.debouncer.Trigger(p.analyze)
	}
	return refetch, nil
}

// ApplyPreset applies the preset best matching name.
func (p *Processor) ApplyPreset(name string) (viz.Preset, bool, error) {
	preset, ok := viz.FindPreset(p.Presets(), name)
	if !ok {
		return viz.Preset{}, false, fmt.Errorf("unknown preset %q", name)
	}
	refetch, err := p.ApplySettings(func(viz.RenderSettings) viz.RenderSettings {
		return preset.Settings
	})
	return preset, refetch, err
}

// SavePreset stores the current settings under name, replacing a preset of
// the same name.
func (p *Processor) SavePreset(name string) (viz.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return viz.Preset{}, fmt.Errorf("preset name required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	preset := viz.Preset{Name: name, Settings: p.settings}
	for i, existing := range p.presets {
		if strings.EqualFold(existing.Name, name) {
			p.presets[i] = preset
			return preset, nil
		}
	}
	p.presets = append(p.presets, preset)
	return preset, nil
}

func (p *Processor) Presets() []viz.Preset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]viz.Preset, len(p.presets))
	copy(out, p.presets)
	return out
}

// analyze requests a spectrogram for the loaded audio with the current
// settings. Results of a request that was overtaken by a newer one are
// dropped.
func (p *Processor) analyze(ctx context.Context) {
	p.mu.Lock()
	if len(p.currentFile) == 0 || p.analyzer == nil {
		p.mu.Unlock()
		return
	}
	p.fetchGen++
	gen := p.fetchGen
	data, name, settings := p.currentFile, p.fileName, p.settings
	p.setStatusLocked(StateAnalyzing, "Generating spectrogram...")
	p.mu.Unlock()

	start := time.Now()
	sg, err := p.analyzer.GenerateSpectrogram(ctx, bytes.NewReader(data), name, settings)

	p.mu.Lock()
	if gen != p.fetchGen || ctx.Err() != nil {
		p.mu.Unlock()
		p.logger.Debug("analysis result dropped", zap.Uint64("fetch", gen))
		return
	}
	if err != nil {
		p.mu.Unlock()
		p.setError("Failed to generate spectrogram", err)
		return
	}
	p.spectrogram = sg
	p.analyzed = settings
	p.selection = nil
	p.setStatusLocked(StateRendering, "Rendering spectrogram...")
	p.mu.Unlock()

	p.logger.Info("spectrogram received",
		zap.String("file", name),
		zap.Int("rows", sg.Matrix.Rows()),
		zap.Int("cols", sg.Matrix.Cols()),
		zap.Duration("elapsed", time.Since(start)))
	p.render()
}

// Close stops all background work.
func (p *Processor) Close() {
	p.CancelProcessing()
	p.renderer.Cancel()
	p.cancel()
}

func (p *Processor) Status() ProcessingStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Idle reports whether nothing is loading, analyzing, rendering or waiting
// to be refetched.
func (p *Processor) Idle() bool {
	return !p.debouncer.Pending() && !p.Status().Busy()
}

func (p *Processor) Settings() viz.RenderSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

func (p *Processor) Metadata() *Metadata {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metadata
}

func (p *Processor) FileName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fileName
}

// HasAudio reports whether audio is loaded, so settings changes can be sent
// for analysis.
func (p *Processor) HasAudio() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.currentFile) > 0
}

// HasData reports whether a spectrogram is available.
func (p *Processor) HasData() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spectrogram != nil
}

// Title is the track title, falling back to the file name.
func (p *Processor) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.metadata != nil && p.metadata.Title != "" {
		return p.metadata.Title
	}
	if p.fileName != "" {
		return p.fileName
	}
	return "Spectrogram"
}

// Info describes the loaded track and spectrogram.
func (p *Processor) Info() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil && p.spectrogram == nil {
		return "No file loaded"
	}
	var b strings.Builder
	if p.metadata != nil {
		b.WriteString(p.metadata.String())
	} else {
		fmt.Fprintf(&b, "%-15s: %s\n", "Source", p.fileName)
	}
	if sg := p.spectrogram; sg != nil {
		rows, cols := sg.Matrix.Dims()
		sum := sg.Matrix.Summary()
		fmt.Fprintf(&b, "%-15s: %d bins × %d frames\n", "Spectrogram", rows, cols)
		fmt.Fprintf(&b, "%-15s: %d Hz\n", "Sample Rate", sg.SampleRate)
		fmt.Fprintf(&b, "%-15s: %s\n", "Duration", viz.FormatSeconds(sg.DurationSeconds()))
		fmt.Fprintf(&b, "%-15s: %.2f .. %.2f (mean %.2f, σ %.2f)\n", "Values", sum.Min, sum.Max, sum.Mean, sum.StdDev)
		if sum.NonFinite > 0 {
			fmt.Fprintf(&b, "%-15s: %d\n", "Non-finite", sum.NonFinite)
		}
	}
	return b.String()
}
