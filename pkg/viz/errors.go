package viz

import "errors"

var (
	// ErrMalformedMatrix is returned for empty or ragged spectrogram data.
	ErrMalformedMatrix = errors.New("malformed spectrogram matrix")
	// ErrInvalidSettings wraps every RenderSettings validation failure.
	ErrInvalidSettings = errors.New("invalid render settings")
	ErrNoData          = errors.New("no spectrogram data")
)

// ErrSuperseded is reported to a render callback when a newer request
// replaced it before it could be published.
var ErrSuperseded = errors.New("render superseded by a newer request")
