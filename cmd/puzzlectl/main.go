// Command puzzlectl checks puzzle catalogs and previews the daily rotation.
//
// Examples:
//
//	puzzlectl validate ./puzzles.json
//	puzzlectl list
//	puzzlectl daily --from 2026-01-01 --days 14
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/robalobadob/connections/internal/catalog"
	"github.com/robalobadob/connections/internal/daily"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "puzzlectl",
		Short:        "Inspect Connections puzzle catalogs",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("file", os.Getenv("PUZZLES_FILE"), "Catalog file (default: embedded catalog)")

	root.AddCommand(newValidateCmd(), newListCmd(), newDailyCmd())
	return root
}

// loadCatalog reads path, or the embedded catalog when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Embedded()
	}
	return catalog.Load(path)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file",
		Long: `Load a catalog and check every puzzle: four sets of four words,
known colors used once each, sixteen distinct words, unique ids.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := loadCatalog(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d puzzles\n", cat.Len())
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List puzzles with their sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			cat, err := loadCatalog(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < cat.Len(); i++ {
				p := cat.At(i)
				fmt.Fprintf(out, "%s\n", p.ID)
				for _, set := range p.Sets {
					fmt.Fprintf(out, "  %-7s %s: %s\n", set.Type, set.Solution, strings.Join(set.Words, ", "))
				}
			}
			return nil
		},
	}
}

func newDailyCmd() *cobra.Command {
	var (
		from string
		days int
		salt string
	)
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Preview which puzzle each day serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now().UTC()
			if from != "" {
				var err error
				if start, err = daily.ParseDateKey(from); err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			path, _ := cmd.Flags().GetString("file")
			cat, err := loadCatalog(path)
			if err != nil {
				return err
			}
			for _, e := range daily.Schedule(start, days, salt, cat.Len()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.Date, cat.At(e.Index).ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (default: today UTC)")
	cmd.Flags().IntVarP(&days, "days", "n", 7, "Number of days to show")
	cmd.Flags().StringVar(&salt, "salt", envOr("DAILY_SALT", "local_dev_salt"), "Daily salt")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
