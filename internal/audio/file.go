package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const readChunk = 32 * 1024

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func (p *Processor) loadFromFile(ctx context.Context, path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open error: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat error: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return p.readWithProgress(ctx, file, info.Size(), "Loading file...")
}

func (p *Processor) loadFromURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return p.readWithProgress(ctx, resp.Body, resp.ContentLength, "Downloading...")
}

// readWithProgress reads r to the end, publishing byte counts and an ETA
// when total is known.
func (p *Processor) readWithProgress(ctx context.Context, r io.Reader, total int64, label string) ([]byte, error) {
	data := make([]byte, 0, max(total, 0))
	buf := make([]byte, readChunk)
	var read int64
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled: %w", err)
		}

		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			read += int64(n)
			p.updateLoadProgress(label, read, total, start)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
	}
	return data, nil
}

func (p *Processor) updateLoadProgress(label string, read, total int64, start time.Time) {
	status := ProcessingStatus{
		State:       StateLoading,
		Message:     label,
		CanCancel:   true,
		StartTime:   start,
		BytesLoaded: read,
		TotalBytes:  total,
	}
	if total > 0 {
		status.Progress = float64(read) / float64(total)
		if elapsed := time.Since(start); elapsed > 0 {
			rate := float64(read) / elapsed.Seconds()
			eta := time.Duration(float64(total-read) / rate * float64(time.Second))
			status.Message = fmt.Sprintf("%s (ETA: %s)", label, formatETA(eta))
		}
	}

	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

func formatETA(d time.Duration) string {
	if d > time.Hour {
		return fmt.Sprintf("%.1f hours", d.Hours())
	} else if d > time.Minute {
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	}
	return fmt.Sprintf("%.0f seconds", d.Seconds())
}
