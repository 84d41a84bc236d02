package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/snake.yaml and is used as the base every file is merged onto.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows: 30,
			Cols: 30,
		},
		Timing: TimingConfig{
			TickMS: 100,
		},
		Presets: map[string]Preset{
			"small":   {Rows: 12, Cols: 12, Description: "Quick game on a 10x10 playfield"},
			"classic": {Rows: 30, Cols: 30, Description: "Classic 30x30 board"},
			"wide":    {Rows: 20, Cols: 48, Description: "Widescreen board for large terminals"},
		},
		Server: ServerConfig{
			SSHAddr:        ":23234",
			IdleTimeoutMin: 30,
			WebAddr:        ":8080",
		},
		Storage: StorageConfig{
			DBPath:        "~/.snake/replays.db",
			RecordReplays: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
