package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sonoviz/pkg/viz"
)

func TestGenerateSpectrogramSendsFormAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-spectrogram" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		for key, want := range map[string]string{
			"spectrogram_type": "mel",
			"db_scale":         "true",
			"fmin":             "50",
			"fmax":             "8000",
			"normalization":    "minmax",
			"colorScheme":      "magma",
			"overlap":          "75",
		} {
			if got := r.FormValue(key); got != want {
				t.Errorf("field %s: expected %q, got %q", key, want, got)
			}
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			f.Close()
			if hdr.Filename != "voice.wav" {
				t.Errorf("expected voice.wav, got %s", hdr.Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(SpectrogramResponse{
			SpectrogramData: [][]float64{{1, 2, 3}, {4, 5, 6}},
			SampleRate:      22050,
			HopLength:       512,
			Duration:        0.07,
			TimeAxisLabels:  []float64{0, 0.07},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Second, nil)
	s := viz.Presets()[0].Settings
	sg, err := c.GenerateSpectrogram(context.Background(), strings.NewReader("RIFF"), "voice.wav", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.Matrix.Rows() != 2 || sg.Matrix.Cols() != 3 || sg.SampleRate != 22050 {
		t.Fatalf("unexpected spectrogram %+v", sg)
	}
}

func TestGenerateSpectrogramErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"fmin must be less than fmax"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.GenerateSpectrogram(context.Background(), strings.NewReader("x"), "a.wav", viz.DefaultSettings())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Detail != "fmin must be less than fmax" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestGenerateSpectrogramRejectsRaggedMatrix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"spectrogram_data":[[1,2],[3]],"sample_rate":8000,"hop_length":128}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.GenerateSpectrogram(context.Background(), strings.NewReader("x"), "a.wav", viz.DefaultSettings())
	if !errors.Is(err, viz.ErrMalformedMatrix) {
		t.Fatalf("expected ErrMalformedMatrix, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	c := NewClient(srv.URL+"/", time.Second, nil)
	if !c.Health(context.Background()) {
		t.Fatalf("expected healthy service")
	}
	srv.Close()
	if c.Health(context.Background()) {
		t.Fatalf("expected closed service to be unhealthy")
	}
}
