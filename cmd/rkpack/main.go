package main

import (
	"fmt"
	"os"

	"github.com/naari3/rkpack/internal/config"
	"github.com/naari3/rkpack/internal/logging"
	"github.com/naari3/rkpack/internal/ui"
	"github.com/spf13/cobra"
)

var version = "dev" // set by build flags: -ldflags="-X main.version=1.0.0"

var (
	dbPathFlag string
	keyFlag    string
	noColor    bool
	verbose    bool
	cfg        *config.Config
	log        *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "rkpack",
		Short:   "Extract and inject rekordbox playlists between master.db libraries",
		Version: version,
		Long: `rkpack extracts a named rekordbox playlist and everything it
transitively references — tracks, artists, albums, cues, hot-cue banks,
artwork — from one master.db and bundles it into a self-contained .rkp
archive. Unpacking that archive into a different master.db allocates fresh
IDs, folds duplicate master rows (artists, albums, genres, ...) into
existing ones, skips tracks whose content hash is already present, and
rewrites every foreign key and embedded JSON blob to match.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			if noColor || !cfg.Color {
				ui.DisableColors()
			}

			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			l, err := logging.New(logging.Config{Level: level})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				log.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "path to rekordbox master.db (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "SQLCipher decryption key (default: rekordbox's well-known key)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")

	rootCmd.AddCommand(newListTablesCmd())
	rootCmd.AddCommand(newListPlaylistsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPackCmd())
	rootCmd.AddCommand(newUnpackCmd())
	rootCmd.AddCommand(newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
