package audio

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestExtractMetadataUntagged(t *testing.T) {
	md, err := ExtractMetadata("/tmp/take 2.wav", make([]byte, 300))
	if err != nil {
		t.Fatalf("untagged audio should not fail, got %v", err)
	}
	if md.Title != "take 2" || md.Artist != "Unknown Artist" {
		t.Fatalf("unexpected defaults %+v", md)
	}
	if md.FileType != "WAV" || md.FileSize != 300 {
		t.Fatalf("unexpected file details %+v", md)
	}
	if !strings.Contains(md.String(), "take 2.wav") {
		t.Fatalf("summary is missing the file name:\n%s", md.String())
	}
}

func TestTryDecode(t *testing.T) {
	if got := tryDecode("Plain Title"); got != "Plain Title" {
		t.Fatalf("expected ASCII to pass through, got %q", got)
	}

	raw, err := charmap.Windows1251.NewEncoder().String("Привет")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := tryDecode(raw); got != "Привет" {
		t.Fatalf("expected Windows-1251 to be decoded, got %q", got)
	}
	if tryDecode("") != "" {
		t.Fatalf("expected empty input to stay empty")
	}
}
