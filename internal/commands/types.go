package commands

import (
	"fmt"
	"time"
)

type Mode int

const (
	ModeNormal Mode = iota
	// ModeTrack is active while audio or an opened export is loaded.
	ModeTrack
)

type Track struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

func (t *Track) String() string {
	if t.Duration > 0 {
		return fmt.Sprintf("%s - %s [%s]", t.Artist, t.Title, FormatDuration(t.Duration))
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
