package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagLogFile       string
	flagScreenshotDir string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in this terminal",
	Long: `Start a game in the current terminal.

Without --preset a board picker is shown first; with it the game starts
immediately. The snake waits for the first arrow key.

Controls:
  Arrows/WASD/hjkl - Steer
  P                - Pause
  R                - Restart (after game over)
  Esc              - Back to the board picker (after game over or paused)
  ?                - Toggle help
  Ctrl+S           - Save a text screenshot (with --screenshots)
  Q/Ctrl+C         - Quit

Examples:
  snake play
  snake play --preset small
  snake play --seed 42 --preset classic
  snake play --log-file ./snake.log --log-level debug`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal is busy drawing)")
	playCmd.Flags().StringVar(&flagScreenshotDir, "screenshots", "", "Directory for Ctrl+S board screenshots")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut, "snake")

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	if flagPreset == "" && flagSeed == 0 {
		return tui.RunMenu(&cfg, store.Recorder(logger), logger)
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		needW, needH := tui.BoardSize(cfg.Board.Rows, cfg.Board.Cols)
		if w < needW || h < needH+2 {
			logger.Warn("terminal smaller than board", "have", fmt.Sprintf("%dx%d", w, h), "need", fmt.Sprintf("%dx%d", needW, needH+2))
			fmt.Fprintf(os.Stderr, "Warning: the %dx%d board needs a %dx%d terminal\n", cfg.Board.Rows, cfg.Board.Cols, needW, needH+2)
		}
	}

	return tui.Run(tui.GameOptions{
		Rows:          cfg.Board.Rows,
		Cols:          cfg.Board.Cols,
		Start:         cfg.Board.Start(),
		Seed:          flagSeed,
		TickInterval:  cfg.Timing.TickInterval(),
		OnFinish:      store.Recorder(logger),
		ScreenshotDir: flagScreenshotDir,
		Logger:        logger,
	})
}
