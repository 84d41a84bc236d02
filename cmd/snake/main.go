// snake is the classic snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake play               - Play in this terminal
//	snake serve              - Start SSH server for remote play
//	snake web                - Start HTTP/websocket server for browsers
//	snake presets            - List board presets
//	snake replays            - List recorded games
//	snake replay <id>        - Re-simulate a recorded game
//
// Global flags:
//
//	--config <path>     - Config YAML (default search: ~/.snake, ./configs)
//	--preset <name>     - Board preset to use instead of the configured board
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Replay database path (default from config)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic grid game in your terminal",
	Long: `Snake steers a growing snake around a walled board. Eat food to grow,
avoid the walls and your own body, fill the board to win.

Available commands:
  play     - Play locally in this terminal
  serve    - Start SSH server for remote play
  web      - Start the browser front-end
  presets  - Show board presets
  replays  - List recorded games
  replay   - Re-simulate a recorded game

Examples:
  snake play
  snake play --preset small
  snake serve --ssh :2222
  snake web --addr :8080
  snake replay 6f1c...`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Board preset (see 'snake presets')")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to replay database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		if err := cfg.ApplyPreset(flagPreset); err != nil {
			return cfg, err
		}
		cfg.Board.StartRow, cfg.Board.StartCol = 0, 0
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger returns a timestamped logger at the configured level.
func newLogger(cfg config.Config, w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.Log.ParsedLevel(),
	})
}

// openStore opens the replay database. When recording is off or the
// database cannot be opened it returns nil and play continues without it.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Storage.RecordReplays {
		return nil
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open replay database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}
