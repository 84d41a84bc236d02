package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List board presets",
	Long:  `Shows the board presets from the configuration.`,
	RunE:  runPresets,
}

func runPresets(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := cfg.PresetNames()
	if len(names) == 0 {
		fmt.Println("No presets configured.")
		return nil
	}

	fmt.Println("Board presets:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, name := range names {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxNameLen, "Name", "Size", "Description")
	fmt.Printf("  %-*s  %-7s  %s\n", maxNameLen, "----", "----", "-----------")
	for _, name := range names {
		p := cfg.Presets[name]
		fmt.Printf("  %-*s  %-7s  %s\n", maxNameLen, name, fmt.Sprintf("%dx%d", p.Rows, p.Cols), p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'snake play --preset <name>' to play on a preset board.")
	return nil
}
