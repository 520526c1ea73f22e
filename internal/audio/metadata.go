package audio

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dhowden/tag"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Metadata describes the loaded audio file. Tag fields are best effort;
// untagged files (most WAVs) only get file-level details.
type Metadata struct {
	FileName    string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        int
	Track       string
	Format      string
	FileType    string
	FileSize    int64
	HasArtwork  bool
}

// legacy encodings tried, in order, when a tag is not valid UTF-8
var legacyEncodings = []encoding.Encoding{
	charmap.Windows1251,
	charmap.KOI8R,
	charmap.ISO8859_5,
	charmap.CodePage866,
	simplifiedchinese.GB18030,
	traditionalchinese.Big5,
	japanese.EUCJP,
	korean.EUCKR,
}

func ExtractMetadata(name string, data []byte) (*Metadata, error) {
	md := &Metadata{
		FileName: filepath.Base(name),
		FileSize: int64(len(data)),
		FileType: strings.TrimPrefix(strings.ToUpper(filepath.Ext(name)), "."),
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	switch {
	case errors.Is(err, tag.ErrNoTagsFound):
	case err != nil:
		return md.withDefaults(), fmt.Errorf("failed to read metadata: %w", err)
	default:
		md.Title = tryDecode(m.Title())
		md.Artist = tryDecode(m.Artist())
		md.Album = tryDecode(m.Album())
		md.AlbumArtist = tryDecode(m.AlbumArtist())
		md.Genre = tryDecode(m.Genre())
		md.Year = m.Year()
		md.Format = string(m.Format())
		if ft := string(m.FileType()); ft != "" && ft != string(tag.UnknownFileType) {
			md.FileType = ft
		}
		if track, total := m.Track(); track > 0 {
			md.Track = fmt.Sprintf("%d", track)
			if total > 0 {
				md.Track = fmt.Sprintf("%d/%d", track, total)
			}
		}
		md.HasArtwork = m.Picture() != nil
	}
	return md.withDefaults(), nil
}

func (m *Metadata) withDefaults() *Metadata {
	if m.Title == "" {
		m.Title = strings.TrimSuffix(m.FileName, filepath.Ext(m.FileName))
	}
	if m.Artist == "" {
		m.Artist = "Unknown Artist"
	}
	if m.Album == "" {
		m.Album = "Unknown Album"
	}
	return m
}

func tryDecode(text string) string {
	if text == "" {
		return ""
	}
	if utf8.ValidString(text) && isReadable(text) {
		return text
	}
	for _, enc := range legacyEncodings {
		if decoded, err := enc.NewDecoder().String(text); err == nil && isReadable(decoded) {
			return decoded
		}
	}
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	if decoded, err := utf16.NewDecoder().String(text); err == nil && isReadable(decoded) {
		return decoded
	}
	return cleanString(text)
}

func readableRune(r rune) bool {
	return r >= 32 && r < 127 || r >= 0x400 && r <= 0x4FF || r >= 0x3040 && r <= 0x30FF || r >= 0x4E00 && r <= 0x9FFF
}

// isReadable reports whether more than half the runes are printable in one
// of the scripts tags are usually written in.
func isReadable(s string) bool {
	if s == "" {
		return false
	}
	readable, total := 0, 0
	for _, r := range s {
		total++
		if readableRune(r) {
			readable++
		}
	}
	return float64(readable)/float64(total) > 0.5
}

func cleanString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if readableRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

func (m *Metadata) String() string {
	var b strings.Builder

	b.WriteString("┌─── Track Information ──────────────────────────────\n")
	fmt.Fprintf(&b, "│ %-15s: %s\n", "File", m.FileName)
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Title", m.Title)
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Artist", m.Artist)
	if m.AlbumArtist != "" && m.AlbumArtist != m.Artist {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Album Artist", m.AlbumArtist)
	}
	fmt.Fprintf(&b, "│ %-15s: %s\n", "Album", m.Album)
	if m.Track != "" {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Track", m.Track)
	}
	if m.Year != 0 {
		fmt.Fprintf(&b, "│ %-15s: %d\n", "Year", m.Year)
	}
	if m.Genre != "" {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Genre", m.Genre)
	}
	b.WriteString("├─── File ──────────────────────────────────────────\n")
	if m.FileType != "" {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Type", m.FileType)
	}
	if m.Format != "" {
		fmt.Fprintf(&b, "│ %-15s: %s\n", "Tag Format", m.Format)
	}
	fmt.Fprintf(&b, "│ %-15s: %d bytes\n", "File Size", m.FileSize)
	if m.HasArtwork {
		fmt.Fprintf(&b, "│ %-15s: embedded\n", "Artwork")
	}
	b.WriteString("└──────────────────────────────────────────────────\n")
	return b.String()
}
