package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsMusicFile(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "a.wav")
	writeFile(t, wav, append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 32)...))
	m4a := filepath.Join(dir, "b.m4a")
	writeFile(t, m4a, append([]byte("\x00\x00\x00\x20ftypM4A "), make([]byte, 32)...))
	fake := filepath.Join(dir, "c.mp3")
	writeFile(t, fake, []byte("this is plain text, not audio"))
	txt := filepath.Join(dir, "d.txt")
	writeFile(t, txt, []byte("RIFF\x00\x00\x00\x00WAVE"))

	cases := map[string]bool{wav: true, m4a: true, fake: false, txt: false, filepath.Join(dir, "none.wav"): false}
	for path, want := range cases {
		if got := IsMusicFile(path); got != want {
			t.Fatalf("IsMusicFile(%s) = %v, expected %v", filepath.Base(path), got, want)
		}
	}
}

func TestIsExportFile(t *testing.T) {
	for path, want := range map[string]bool{
		"song_mel.json":     true,
		"song_mel.JSON.gz":  true,
		"out/song.json.zst": true,
		"song.png":          false,
		"song.json.bak":     false,
	} {
		if got := IsExportFile(path); got != want {
			t.Fatalf("IsExportFile(%s) = %v, expected %v", path, got, want)
		}
	}
}

func TestGetCompletions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "take1.json"), []byte("{}"))
	writeFile(t, filepath.Join(dir, "take2.txt"), []byte("x"))
	writeFile(t, filepath.Join(dir, ".hidden.json"), []byte("{}"))
	if err := os.Mkdir(filepath.Join(dir, "takes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := GetCompletions(filepath.Join(dir, "take"), IsExportFile)
	want := []string{filepath.Join(dir, "take1.json"), filepath.Join(dir, "takes") + string(os.PathSeparator)}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if all := GetCompletions(dir+string(os.PathSeparator), nil); len(all) != 3 {
		t.Fatalf("expected 3 visible entries, got %v", all)
	}
}
