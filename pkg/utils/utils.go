package utils

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var MusicExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".wav":  true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".wma":  true,
}

// compression suffixes a JSON export may carry
var exportSuffixes = []string{"", ".gz", ".zst", ".br", ".lz4", ".sz"}

type magic struct {
	offset int
	bytes  []byte
}

// Magic numbers for common audio formats
var MagicNumbers = map[string]magic{
	"mp3":  {0, []byte("ID3")},
	"flac": {0, []byte("fLaC")},
	"wav":  {0, []byte("RIFF")},
	"ogg":  {0, []byte("OggS")},
	"m4a":  {4, []byte("ftyp")},
}

func IsMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !MusicExtensions[ext] {
		return false
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 12)
	n, err := file.Read(header)
	if err != nil || n < 8 {
		return false
	}
	header = header[:n]

	if strings.HasPrefix(http.DetectContentType(header), "audio/") {
		return true
	}
	for _, m := range MagicNumbers {
		end := m.offset + len(m.bytes)
		if end <= len(header) && bytes.Equal(header[m.offset:end], m.bytes) {
			return true
		}
	}
	// mp3 frames without an ID3 header start with a sync word
	return ext == ".mp3" && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

// IsExportFile reports whether path looks like a JSON export, optionally
// compressed.
func IsExportFile(path string) bool {
	lower := strings.ToLower(path)
	for _, s := range exportSuffixes {
		if strings.HasSuffix(lower, ".json"+s) {
			return true
		}
	}
	return false
}

// GetCompletions lists directories and accepted files starting with
// partialPath. A nil accept keeps every file.
func GetCompletions(partialPath string, accept func(string) bool) []string {
	dir := filepath.Dir(partialPath)
	prefix := filepath.Base(partialPath)
	if strings.HasSuffix(partialPath, string(os.PathSeparator)) {
		dir = filepath.Clean(partialPath)
		prefix = ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var completions []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if entry.IsDir() {
			completions = append(completions, fullPath+string(os.PathSeparator))
			continue
		}
		if accept == nil || accept(fullPath) {
			completions = append(completions, fullPath)
		}
	}
	sort.Strings(completions)
	return completions
}
