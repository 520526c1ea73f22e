package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sonoviz/pkg/viz"
)

const DefaultBaseURL = "http://localhost:8000"

// SpectrogramResponse is the analysis service payload.
type SpectrogramResponse struct {
	SpectrogramData [][]float64 `json:"spectrogram_data"`
	SampleRate      int         `json:"sample_rate"`
	HopLength       int         `json:"hop_length"`
	Duration        float64     `json:"duration"`
	Shape           []int       `json:"shape,omitempty"`
	TimeAxisLabels  []float64   `json:"time_axis_labels,omitempty"`
}

// Spectrogram validates the payload and converts it.
func (r *SpectrogramResponse) Spectrogram() (*viz.Spectrogram, error) {
	m, err := viz.NewMatrix(r.SpectrogramData)
	if err != nil {
		return nil, err
	}
	return &viz.Spectrogram{
		Matrix:         m,
		SampleRate:     r.SampleRate,
		HopLength:      r.HopLength,
		Duration:       r.Duration,
		TimeAxisLabels: r.TimeAxisLabels,
	}, nil
}

// ResponseFrom is the inverse of Spectrogram, used for exports.
func ResponseFrom(sg *viz.Spectrogram) SpectrogramResponse {
	rows, cols := sg.Matrix.Dims()
	return SpectrogramResponse{
		SpectrogramData: sg.Matrix.Slices(),
		SampleRate:      sg.SampleRate,
		HopLength:       sg.HopLength,
		Duration:        sg.Duration,
		Shape:           []int{rows, cols},
		TimeAxisLabels:  sg.TimeAxisLabels,
	}
}

// Error is a non-2xx reply from the service.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient talks to the service at baseURL; an empty baseURL means
// DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateSpectrogram uploads the audio and returns the analysed matrix.
func (c *Client) GenerateSpectrogram(ctx context.Context, audio io.Reader, filename string, s viz.RenderSettings) (*viz.Spectrogram, error) {
	body, contentType, err := encodeForm(audio, filename, s)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-spectrogram", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var payload SpectrogramResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	sg, err := payload.Spectrogram()
	if err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	c.logger.Info("spectrogram generated",
		zap.String("file", filename),
		zap.String("type", string(s.SpectrogramType)),
		zap.Int("rows", sg.Matrix.Rows()),
		zap.Int("cols", sg.Matrix.Cols()),
		zap.Duration("elapsed", time.Since(start)))
	return sg, nil
}

// Health reports whether the service answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("health check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func encodeForm(audio io.Reader, filename string, s viz.RenderSettings) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, audio); err != nil {
		return nil, "", fmt.Errorf("failed to read audio: %w", err)
	}

	fields := []struct{ key, value string }{
		{"spectrogram_type", string(s.SpectrogramType)},
		{"window_size", strconv.Itoa(s.WindowSize)},
		{"hop_length", strconv.Itoa(s.HopLength)},
		{"fft_size", strconv.Itoa(s.FFTSize)},
		{"db_scale", strconv.FormatBool(s.DBScale)},
		{"fmin", strconv.FormatFloat(s.FMin, 'f', -1, 64)},
		{"fmax", strconv.FormatFloat(s.FMax, 'f', -1, 64)},
		{"normalization", string(s.Normalization)},
		{"overlap", strconv.Itoa(s.Overlap)},
		{"colorScheme", s.ColorScheme},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.key, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// decodeError prefers the JSON "detail" field, then "message", then the
// status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Detail: resp.Status}
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if apiErr.Detail == "" {
			apiErr.Detail = fmt.Sprintf("Error code: %d", resp.StatusCode)
		}
		return apiErr
	}
	var detail string
	switch {
	case len(body.Detail) > 0 && json.Unmarshal(body.Detail, &detail) == nil && detail != "":
		apiErr.Detail = detail
	case len(body.Detail) > 0 && string(body.Detail) != "null":
		apiErr.Detail = string(body.Detail)
	case body.Message != "":
		apiErr.Detail = body.Message
	}
	return apiErr
}
