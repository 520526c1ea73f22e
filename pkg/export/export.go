package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"sonoviz/pkg/viz"
)

type Kind string

const (
	KindPNG     Kind = "png"
	KindJSON    Kind = "json"
	KindParquet Kind = "parquet"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPNG, KindJSON, KindParquet:
		return k, nil
	}
	return "", fmt.Errorf("unknown export format %q (use png, json or parquet)", s)
}

func (k Kind) ContentType() string {
	switch k {
	case KindPNG:
		return "image/png"
	case KindJSON:
		return "application/json"
	case KindParquet:
		return "application/parquet"
	}
	return "application/octet-stream"
}

// DefaultName is "<file>_<type>.<ext>", with "spectrogram" standing in for
// a missing file name.
func DefaultName(filename string, t viz.SpectrogramType, k Kind) string {
	base := filepath.Base(filename)
	if filename == "" || base == "." || base == string(filepath.Separator) {
		base = "spectrogram"
	}
	return fmt.Sprintf("%s_%s.%s", base, t, k)
}

// Options carries the per-export choices.
type Options struct {
	Filename string // source audio file name used for metadata and naming
	Dir      string // directory for relative or empty destinations
	PNG      PNGOptions
}

// Exporter writes frames to local files or S3.
type Exporter struct {
	s3     PutObjectAPI
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter returns an Exporter. s3 may be nil when uploads are not needed.
func NewExporter(s3 PutObjectAPI, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{s3: s3, logger: logger, now: time.Now}
}

// Resolve returns the final destination for an export.
func (e *Exporter) Resolve(kind Kind, dest string, f *viz.Frame, opts Options) string {
	name := DefaultName(opts.Filename, f.Settings.SpectrogramType, kind)
	switch {
	case dest == "":
		dest = name
	case strings.HasSuffix(dest, "/"):
		dest += name
	default:
		if _, _, ok := ParseS3URL(dest); !ok {
			if st, err := os.Stat(dest); err == nil && st.IsDir() {
				dest = filepath.Join(dest, name)
			}
		}
	}
	if _, _, ok := ParseS3URL(dest); !ok && !filepath.IsAbs(dest) && opts.Dir != "" {
		dest = filepath.Join(opts.Dir, dest)
	}
	return dest
}

// Export encodes f as kind and writes it to dest, returning the resolved
// destination.
func (e *Exporter) Export(ctx context.Context, kind Kind, dest string, f *viz.Frame, opts Options) (string, error) {
	if f == nil || f.Spectrogram == nil {
		return "", viz.ErrNoData
	}
	dest = e.Resolve(kind, dest, f, opts)
	codec, _ := CodecFor(dest)

	w, err := openSink(ctx, dest, kind.ContentType(), codec, e.s3)
	if err != nil {
		return "", err
	}

	start := time.Now()
	switch kind {
	case KindPNG:
		err = EncodePNG(w, f, opts.PNG)
	case KindJSON:
		err = EncodeJSON(w, NewDocument(f.Spectrogram, f.Settings, opts.Filename, e.now()))
	case KindParquet:
		_, err = EncodeParquet(w, f.Spectrogram)
	default:
		err = fmt.Errorf("unknown export format %q", kind)
	}
	if err != nil {
		_ = w.Abort()
	} else {
		err = w.Close()
	}
	if err != nil {
		e.logger.Warn("export failed", zap.String("kind", string(kind)), zap.String("dest", dest), zap.Error(err))
		return "", err
	}

	e.logger.Info("export written",
		zap.String("kind", string(kind)),
		zap.String("dest", dest),
		zap.String("codec", string(codec)),
		zap.Duration("elapsed", time.Since(start)))
	return dest, nil
}
