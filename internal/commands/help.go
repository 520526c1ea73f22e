package commands

import (
	tea "github.com/charmbracelet/bubbletea"
)

const settingsHelp = `
Settings (usable before or after loading):
type <magnitude|mel|chromagram|cqt>   Spectrogram type
cmap [name]       Colormap (viridis, magma, inferno, plasma, cividis); cycles without a name
norm [mode]       Normalization (none, minmax, zscore); cycles without a mode
db [on|off]       dB scaling; toggles without an argument
fmin, fmax <hz>   Frequency range
fft, window, hop <n>, overlap <pct>
preset [name]     List or apply presets; 'preset save <name>' stores the current settings
reset             Restore default settings and zoom
settings, s       Show current settings
health            Check the analysis service`

func (c *Commander) handleHelp() (string, error, tea.Cmd) {
	help := `Available Commands:

help, h          Show this help message
load, l <path>   Load audio file from path or URL and generate its spectrogram
open, o <file>   Open a JSON export without the analysis service
quit, q, exit    Exit application
` + settingsHelp + `

Commands can be used with or without a colon prefix (:)
Example: Both "help" and ":help" will work`

	return help, nil, nil
}

func (c *Commander) handleTrackHelp() (string, error, tea.Cmd) {
	help := `Track Mode Commands:

viz, v           Show the spectrogram (keys: +/- zoom, arrows scroll, click to pick)
info, i          Show track and spectrogram details
zoom <in|out|reset|level>
pick <sec> <hz>  Select the point at a time and frequency
clear            Clear the selected point
export <png|json|parquet> [dest] [--axes] [--display]
                 dest may be a directory, a file (.gz .zst .br .lz4 .sz compress) or s3://bucket/key
load, open       Replace the current spectrogram
unload           Unload current track and return to normal mode
help, h          Show this help message
` + settingsHelp

	return help, nil, nil
}
