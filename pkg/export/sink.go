package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures NewS3Client. Empty keys fall back to the default
// credential chain.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ParseS3URL splits "s3://bucket/key" into its parts.
func ParseS3URL(dest string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(dest, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// sink is an export destination. Close commits what was written, Abort
// throws it away and leaves any existing destination untouched.
type sink interface {
	io.WriteCloser
	Abort() error
}

// s3Sink buffers the object and uploads it on Close.
type s3Sink struct {
	ctx             context.Context
	cli             PutObjectAPI
	bucket, key     string
	contentType     string
	contentEncoding string
	buf             bytes.Buffer
	closed          bool
}

func (s *s3Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *s3Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	put := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: aws.String(s.contentType),
	}
	if s.contentEncoding != "" {
		put.ContentEncoding = aws.String(s.contentEncoding)
	}
	if _, err := s.cli.PutObject(s.ctx, put); err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *s3Sink) Abort() error {
	s.closed = true
	s.buf.Reset()
	return nil
}

// fileSink writes to a temporary file next to dest and renames it into
// place on Close.
type fileSink struct {
	*os.File
	dest string
	done bool
}

func newFileSink(dest string) (*fileSink, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	return &fileSink{File: f, dest: dest}, nil
}

func (s *fileSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.File.Close(); err != nil {
		_ = os.Remove(s.Name())
		return fmt.Errorf("failed to write %s: %w", s.dest, err)
	}
	if err := os.Chmod(s.Name(), 0644); err != nil {
		_ = os.Remove(s.Name())
		return fmt.Errorf("failed to write %s: %w", s.dest, err)
	}
	if err := os.Rename(s.Name(), s.dest); err != nil {
		_ = os.Remove(s.Name())
		return fmt.Errorf("failed to write %s: %w", s.dest, err)
	}
	return nil
}

func (s *fileSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	_ = s.File.Close()
	return os.Remove(s.Name())
}

// openSink opens dest for writing. Local paths get their parent directory
// created; s3:// destinations require cli.
func openSink(ctx context.Context, dest, contentType string, codec Codec, cli PutObjectAPI) (sink, error) {
	var out sink
	if bucket, key, ok := ParseS3URL(dest); ok {
		if cli == nil {
			return nil, fmt.Errorf("no s3 client configured for %s", dest)
		}
		out = &s3Sink{
			ctx:             ctx,
			cli:             cli,
			bucket:          bucket,
			key:             key,
			contentType:     contentType,
			contentEncoding: codec.ContentEncoding(),
		}
	} else {
		f, err := newFileSink(dest)
		if err != nil {
			return nil, err
		}
		out = f
	}
	w, err := compressWriter(out, codec)
	if err != nil {
		_ = out.Abort()
		return nil, err
	}
	return w, nil
}
