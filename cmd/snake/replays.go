package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagReplayLimit int
	flagReplayDebug bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded games",
	Long: `Display the most recently recorded games, newest first.

Examples:
  snake replays
  snake replays --limit 25
  snake replays rm <id>`,
	RunE: runReplays,
}

var replaysRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a recorded game",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysRm,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded game",
	Long: `Re-run a recorded game from its seed and move journal and print the
final board. The result must match what was recorded.

Examples:
  snake replay 3b1f0c9e-...
  snake replay --debug 3b1f0c9e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replaysCmd.Flags().IntVar(&flagReplayLimit, "limit", 10, "Number of games to show")
	replaysCmd.AddCommand(replaysRmCmd)
	replayCmd.Flags().BoolVar(&flagReplayDebug, "debug", false, "Print the full engine state instead of the board")
}

// openReplayStore opens the database named by config and flags. Unlike
// play, listing commands fail when it is unavailable.
func openReplayStore() (*storage.Store, *log.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg, os.Stderr, "snake")
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening replay database: %w", err)
	}
	return store, logger, nil
}

func runReplays(_ *cobra.Command, _ []string) error {
	store, _, err := openReplayStore()
	if err != nil {
		return err
	}
	defer store.Close()

	replays, err := store.RecentReplays(flagReplayLimit)
	if err != nil {
		return fmt.Errorf("retrieving replays: %w", err)
	}

	if len(replays) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to record one!")
		return nil
	}

	fmt.Printf("  %-36s  %-7s  %-9s  %6s  %8s  %s\n", "ID", "Board", "Outcome", "Length", "Ticks", "When")
	fmt.Printf("  %-36s  %-7s  %-9s  %6s  %8s  %s\n", "--", "-----", "-------", "------", "-----", "----")
	for _, r := range replays {
		fmt.Printf("  %-36s  %-7s  %-9s  %6d  %8s  %s\n",
			r.ID,
			fmt.Sprintf("%dx%d", r.Rows, r.Cols),
			r.Outcome,
			r.Length,
			humanize.Comma(int64(r.Ticks)),
			humanize.Time(r.CreatedAt),
		)
	}
	return nil
}

func runReplaysRm(_ *cobra.Command, args []string) error {
	store, logger, err := openReplayStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteReplay(args[0]); err != nil {
		return err
	}
	logger.Info("replay deleted", "id", args[0])
	return nil
}

func runReplay(_ *cobra.Command, args []string) error {
	store, logger, err := openReplayStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetReplay(args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no replay with id %q; run 'snake replays' to list them", args[0])
	}
	if err != nil {
		return err
	}

	eng, err := session.Replay(rec.Journal())
	if err != nil {
		return err
	}

	if flagReplayDebug {
		fmt.Println(eng.DebugState())
	} else {
		fmt.Println(eng.Cells().String())
	}
	fmt.Println()
	fmt.Printf("Board:   %dx%d (seed %d)\n", rec.Rows, rec.Cols, rec.Seed)
	fmt.Printf("Outcome: %s after %s ticks\n", eng.Status(), humanize.Comma(int64(eng.Ticks())))
	fmt.Printf("Score:   %d (length %d)\n", eng.Score(), eng.Len())
	fmt.Printf("Played:  %s\n", humanize.Time(rec.CreatedAt))

	if eng.Status().String() != rec.Outcome || eng.Len() != rec.Length {
		logger.Warn("replay diverged from recording",
			"recorded_outcome", rec.Outcome, "replayed_outcome", eng.Status(),
			"recorded_length", rec.Length, "replayed_length", eng.Len())
		return errors.New("replay does not reproduce the recorded game")
	}
	return nil
}
