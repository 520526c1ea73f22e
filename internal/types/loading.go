package types

import (
	"fmt"
	"sync"
	"time"
)

// Progress is one observation of background work, taken from the
// processor status on every UI tick.
type Progress struct {
	Busy      bool
	Message   string
	Fraction  float64
	StartTime time.Time
	Loaded    int64
	Total     int64
	CanCancel bool
}

// LoadingState is what the spinner and progress bar draw from.
type LoadingState struct {
	IsLoading   bool
	Message     string
	Progress    float64
	StartTime   time.Time
	FileSize    int64
	BytesLoaded int64
	CanCancel   bool
	mu          sync.RWMutex
}

// Observe folds p into the state and reports whether work just finished.
func (s *LoadingState) Observe(p Progress) (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !p.Busy {
		finished = s.IsLoading
		s.clearLocked()
		return finished
	}
	s.IsLoading = true
	s.Message = p.Message
	s.StartTime = p.StartTime
	s.CanCancel = p.CanCancel
	s.BytesLoaded = p.Loaded
	s.FileSize = p.Total
	s.Progress = p.Fraction
	if p.Total > 0 && p.Loaded >= 0 {
		s.Progress = float64(p.Loaded) / float64(p.Total)
	}
	return false
}

func (s *LoadingState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *LoadingState) clearLocked() {
	s.IsLoading = false
	s.Message = ""
	s.Progress = 0
	s.FileSize = 0
	s.BytesLoaded = 0
	s.CanCancel = false
}

// HasBytes reports whether a byte count is known, so a bar makes sense.
func (s *LoadingState) HasBytes() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FileSize > 0 && s.BytesLoaded > 0
}

func (s *LoadingState) GetETA() string {
	return s.etaAt(time.Now())
}

func (s *LoadingState) etaAt(now time.Time) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.BytesLoaded == 0 || s.FileSize == 0 {
		return ""
	}
	elapsed := now.Sub(s.StartTime)
	if elapsed < 500*time.Millisecond {
		return ""
	}
	rate := float64(s.BytesLoaded) / elapsed.Seconds()
	eta := time.Duration(float64(s.FileSize-s.BytesLoaded) / rate * float64(time.Second))

	switch {
	case eta > time.Hour:
		return fmt.Sprintf("%.1f hours", eta.Hours())
	case eta > time.Minute:
		return fmt.Sprintf("%.1f minutes", eta.Minutes())
	default:
		return fmt.Sprintf("%.0f seconds", eta.Seconds())
	}
}
