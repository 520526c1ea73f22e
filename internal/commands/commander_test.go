package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sonoviz/internal/audio"
	"sonoviz/internal/types"
	"sonoviz/pkg/viz"
)

type stubAnalyzer struct{}

func (stubAnalyzer) GenerateSpectrogram(ctx context.Context, r io.Reader, name string, s viz.RenderSettings) (*viz.Spectrogram, error) {
	m, err := viz.NewMatrix([][]float64{{0, 1, 2, 3}, {4, 5, 6, 7}})
	if err != nil {
		return nil, err
	}
	return &viz.Spectrogram{Matrix: m, SampleRate: 1000, HopLength: 500, Duration: 2}, nil
}

type stubHealth struct{ ok bool }

func (s stubHealth) Health(context.Context) bool { return s.ok }
func (stubHealth) BaseURL() string               { return "http://analysis.test" }

func newCommander(t *testing.T) *Commander {
	t.Helper()
	p := audio.NewProcessor(stubAnalyzer{}, nil, audio.Options{Debounce: 10 * time.Millisecond, ExportDir: t.TempDir()})
	t.Cleanup(p.Close)
	return NewCommander(p, stubHealth{ok: true}, nil)
}

func loaded(t *testing.T) *Commander {
	t.Helper()
	c := newCommander(t)
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, make([]byte, 256), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err, cmd := c.Execute("load " + path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(out, "Loading") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, ok := cmd().(types.EnterVizMsg); !ok {
		t.Fatalf("expected load to enter the spectrogram view")
	}

	deadline := time.Now().Add(3 * time.Second)
	for c.GetProcessor().Frame() == nil || c.GetProcessor().Status().Busy() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the spectrogram")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return c
}

func TestTrackCommandsNeedData(t *testing.T) {
	c := newCommander(t)
	for _, cmd := range []string{"info", "zoom in", "pick 1 100", "export png", "unload"} {
		if _, err, _ := c.Execute(cmd); err == nil {
			t.Fatalf("expected %q to fail without data", cmd)
		}
	}
	if _, err, _ := c.Execute("bogus"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected an unknown command error, got %v", err)
	}
	if _, err, _ := c.Execute("   "); err == nil {
		t.Fatalf("expected an empty command error")
	}
}

func TestSettingsBeforeLoad(t *testing.T) {
	c := newCommander(t)

	out, err, _ := c.Execute(":cmap plasma")
	if err != nil {
		t.Fatalf("cmap: %v", err)
	}
	if !strings.HasPrefix(out, "Settings updated") {
		t.Fatalf("unexpected output %q", out)
	}
	if got := c.GetProcessor().Settings().ColorScheme; got != "plasma" {
		t.Fatalf("expected plasma, got %s", got)
	}

	if _, err, _ := c.Execute("cmap rainbow"); err == nil {
		t.Fatalf("expected an unknown colormap error")
	}
	if _, err, _ := c.Execute("norm loud"); err == nil {
		t.Fatalf("expected an unknown normalization error")
	}
	if _, err, _ := c.Execute("fmin 9000"); err == nil {
		t.Fatalf("expected fmin above fmax to be rejected")
	}
	for _, cmd := range []string{"fmin nan", "fmax inf", "fmin -Inf"} {
		if _, err, _ := c.Execute(cmd); err == nil {
			t.Fatalf("expected %q to be rejected", cmd)
		}
	}
	if s := c.GetProcessor().Settings(); s.FMin != 50 || s.FMax != 8000 {
		t.Fatalf("expected the frequency range to be unchanged, got %g-%g", s.FMin, s.FMax)
	}

	if _, err, _ := c.Execute("db"); err != nil {
		t.Fatalf("db: %v", err)
	}
	if !c.GetProcessor().Settings().DBScale {
		t.Fatalf("expected db to toggle on")
	}
	if _, err, _ := c.Execute("hop 256"); err != nil {
		t.Fatalf("hop: %v", err)
	}
	if got := c.GetProcessor().Settings().HopLength; got != 256 {
		t.Fatalf("expected hop 256, got %d", got)
	}
	if _, err, _ := c.Execute("reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if c.GetProcessor().Settings() != viz.DefaultSettings() {
		t.Fatalf("expected defaults after reset")
	}
}

func TestSettingsAfterLoad(t *testing.T) {
	c := loaded(t)

	out, err, _ := c.Execute("cmap")
	if err != nil {
		t.Fatalf("cmap: %v", err)
	}
	if !strings.HasPrefix(out, "Applied locally") {
		t.Fatalf("expected a local re-render, got %q", out)
	}
	if got := c.GetProcessor().Settings().ColorScheme; got != "magma" {
		t.Fatalf("expected the next colormap, got %s", got)
	}

	out, err, _ = c.Execute("type mel")
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	if !strings.HasPrefix(out, "Regenerating") {
		t.Fatalf("expected a refetch, got %q", out)
	}
}

func TestZoomAndPick(t *testing.T) {
	c := loaded(t)

	out, err, _ := c.Execute("zoom in")
	if err != nil || !strings.HasPrefix(out, "zoom 1.25x") {
		t.Fatalf("unexpected zoom result %q %v", out, err)
	}
	if out, _, _ = c.Execute("zoom 9"); !strings.HasPrefix(out, "zoom 3.00x") {
		t.Fatalf("expected the zoom to clamp, got %q", out)
	}

	s := c.GetProcessor().Settings()
	out, err, _ = c.Execute(fmt.Sprintf("pick 0.5s %ghz", s.FMax-1))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !strings.HasPrefix(out, "Time: 0.500s") {
		t.Fatalf("unexpected pick output %q", out)
	}
	if _, err, _ := c.Execute("pick 100 100"); err == nil {
		t.Fatalf("expected a pick outside the spectrogram to fail")
	}

	c.Execute("clear")
	if c.GetProcessor().Selection() != nil {
		t.Fatalf("expected the selection to be cleared")
	}
}

func TestExportCommand(t *testing.T) {
	c := loaded(t)
	dir := t.TempDir()

	if _, err, _ := c.Execute("export json --axes"); err == nil {
		t.Fatalf("expected --axes to be rejected for json")
	}
	if _, err, _ := c.Execute("export gif"); err == nil {
		t.Fatalf("expected an unknown format error")
	}

	_, err, cmd := c.Execute("export png " + dir + "/ --axes")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	msg, ok := cmd().(types.ExportDoneMsg)
	if !ok {
		t.Fatalf("expected an ExportDoneMsg")
	}
	if msg.Err != nil {
		t.Fatalf("export failed: %v", msg.Err)
	}
	if want := filepath.Join(dir, "clip.wav_magnitude.png"); msg.Dest != want {
		t.Fatalf("expected %s, got %s", want, msg.Dest)
	}
	if _, err := os.Stat(msg.Dest); err != nil {
		t.Fatalf("export not written: %v", err)
	}
}

func TestHealthAndUnload(t *testing.T) {
	c := loaded(t)

	_, err, cmd := c.Execute("health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if msg := cmd().(types.HealthMsg); !msg.OK || msg.URL != "http://analysis.test" {
		t.Fatalf("unexpected health message %+v", msg)
	}

	if track := c.GetCurrentTrack(); track == nil || track.Title != "clip" {
		t.Fatalf("unexpected track %+v", track)
	}
	if _, err, _ := c.Execute("unload"); err != nil {
		t.Fatalf("unload: %v", err)
	}
	if c.IsInTrackMode() || c.GetCurrentTrack() != nil {
		t.Fatalf("expected normal mode after unload")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(125*time.Second + 400*time.Millisecond); got != "02:05" {
		t.Fatalf("expected 02:05, got %s", got)
	}
}
