package types

import (
	"testing"
	"time"
)

func TestLoadingStateETA(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &LoadingState{StartTime: start}

	if eta := s.etaAt(start.Add(time.Second)); eta != "" {
		t.Fatalf("expected no ETA before progress, got %q", eta)
	}

	s.Observe(Progress{Busy: true, StartTime: start, Loaded: 250, Total: 1000})
	if s.Progress != 0.25 {
		t.Fatalf("expected progress 0.25, got %v", s.Progress)
	}
	if eta := s.etaAt(start.Add(100 * time.Millisecond)); eta != "" {
		t.Fatalf("expected no ETA in the first half second, got %q", eta)
	}
	// 250 bytes in 10s leaves 750 bytes, 30s
	if eta := s.etaAt(start.Add(10 * time.Second)); eta != "30 seconds" {
		t.Fatalf("expected 30 seconds, got %q", eta)
	}
	if eta := s.etaAt(start.Add(100 * time.Second)); eta != "5.0 minutes" {
		t.Fatalf("expected 5.0 minutes, got %q", eta)
	}

	s.Reset()
	if s.IsLoading || s.Progress != 0 || s.FileSize != 0 {
		t.Fatalf("expected a cleared state, got %+v", s)
	}
}

func TestLoadingStateObserve(t *testing.T) {
	s := &LoadingState{}
	if s.Observe(Progress{}) {
		t.Fatalf("idle to idle is not a finish")
	}

	s.Observe(Progress{Busy: true, Message: "Loading file...", Loaded: 50, Total: 200, CanCancel: true})
	if !s.IsLoading || s.Progress != 0.25 || !s.HasBytes() {
		t.Fatalf("expected byte progress, got %+v", s)
	}

	s.Observe(Progress{Busy: true, Message: "Generating spectrogram...", Fraction: 0.5})
	if s.Progress != 0.5 || s.HasBytes() {
		t.Fatalf("expected fractional progress without bytes, got %+v", s)
	}

	if !s.Observe(Progress{}) {
		t.Fatalf("expected busy to idle to report a finish")
	}
	if s.IsLoading || s.Message != "" {
		t.Fatalf("expected a cleared state, got %+v", s)
	}
}
