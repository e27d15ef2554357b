package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/k1LoW/prez"
	"github.com/k1LoW/prez/config"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [FILE]",
	Short: "open the latest generated deck",
	Long: `open the latest generated deck.

With a .pptx argument the file opens directly. With a deck file argument the
newest versioned output for its base name opens. Without arguments the base
name comes from the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		target, err := resolveGenerated(cfg, args)
		if err != nil {
			return err
		}
		cmd.Println(target)
		return prez.Open(ctx, cfg.OpenCommand, target)
	},
}

// resolveGenerated picks the generated deck to act on: a .pptx argument
// directly, the newest versioned output for a deck file's base name, or the
// newest versioned output for the config's base name.
func resolveGenerated(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".pptx") {
		return args[0], nil
	}
	b := cfg.Base
	if len(args) == 1 {
		df, err := loadDeckFile(args[0])
		if err != nil {
			return "", err
		}
		if df.Base != "" {
			b = df.Base
		} else if b == "" {
			b = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
	}
	if b == "" {
		return "", fmt.Errorf("base name is required. Pass a deck file or set base in the config")
	}
	return prez.LatestVersioned(".", b)
}

func init() {
	rootCmd.AddCommand(openCmd)
}
