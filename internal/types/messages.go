package types

// EnterVizMsg switches the UI to the spectrogram view.
type EnterVizMsg struct{}

// HealthMsg carries the result of an analysis service health check.
type HealthMsg struct {
	URL string
	OK  bool
}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Kind string
	Dest string
	Err  error
}
