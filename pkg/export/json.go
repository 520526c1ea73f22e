package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"sonoviz/pkg/api"
	"sonoviz/pkg/viz"
)

// Metadata describes where an exported document came from.
type Metadata struct {
	Filename   string    `json:"filename,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	SampleRate int       `json:"sampleRate"`
	Duration   float64   `json:"duration"`
}

// Document is the JSON export: the analysis payload as received, the
// settings it was rendered with, and metadata.
type Document struct {
	Data     api.SpectrogramResponse `json:"data"`
	Settings viz.RenderSettings      `json:"settings"`
	Metadata Metadata                `json:"metadata"`
}

func NewDocument(sg *viz.Spectrogram, s viz.RenderSettings, filename string, now time.Time) Document {
	return Document{
		Data:     api.ResponseFrom(sg),
		Settings: s,
		Metadata: Metadata{
			Filename:   filename,
			CreatedAt:  now.UTC(),
			SampleRate: sg.SampleRate,
			Duration:   sg.Duration,
		},
	}
}

// EncodeJSON writes doc with two-space indentation.
func EncodeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}

func DecodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode json export: %w", err)
	}
	if doc.Settings.SpectrogramType == "" {
		doc.Settings = viz.DefaultSettings()
	}
	doc.Settings.Normalization = viz.ParseNormalization(string(doc.Settings.Normalization))
	return &doc, nil
}

// ReadDocument opens a local JSON export, decompressing by suffix.
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	codec, _ := CodecFor(path)
	r, err := decompressReader(f, codec)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return DecodeJSON(r)
}

// Spectrogram validates and converts the embedded payload.
func (d *Document) Spectrogram() (*viz.Spectrogram, error) {
	return d.Data.Spectrogram()
}
