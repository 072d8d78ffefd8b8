package main

import (
	"fmt"
	"os"
	"time"

	"github.com/naari3/rkpack/internal/progress"
	"github.com/naari3/rkpack/internal/ui"
	"github.com/naari3/rkpack/internal/ui/progresstui"
	"github.com/naari3/rkpack/internal/unpack"
	"github.com/spf13/cobra"
)

func newUnpackCmd() *cobra.Command {
	var destDir string
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "unpack <pack>",
		Short: "Inject a .rkp archive's playlist into the Library DB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packPath := args[0]
			if destDir == "" {
				destDir = cfg.Unpack.DestDir
			}
			if destDir == "" {
				return fmt.Errorf("--dest-dir is required (or set dest_dir under [unpack] in the config file)")
			}

			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return fmt.Errorf("create destination directory: %w", err)
			}

			db, err := openDBFromFlags(false)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := unpack.Options{
				PackPath: packPath,
				DestDir:  destDir,
			}

			var stats unpack.Stats
			started := time.Now()
			run := func(sink progress.Sink) error {
				s, err := unpack.Run(cmd.Context(), db, opts, sink)
				stats = s
				return err
			}

			if useTUI {
				err = progresstui.Run("unpacking "+packPath, run)
			} else {
				err = run(progress.Stdout())
			}
			if err != nil {
				return err
			}

			ui.Section("unpack complete")
			fmt.Println("elapsed:", ui.FormatDuration(time.Since(started)))
			fmt.Printf("inserted: %d, skipped: %d, duplicate tracks: %d\n", stats.Inserted, stats.Skipped, stats.DuplicateTracks)
			fmt.Printf("audio: %d copied, %d skipped, %d failed\n", stats.AudioCopied, stats.AudioSkipped, stats.AudioFailed)
			fmt.Printf("content data: %d copied, %d skipped, %d failed\n", stats.DataCopied, stats.DataSkipped, stats.DataFailed)
			return nil
		},
	}

	cmd.Flags().StringVar(&destDir, "dest-dir", "", "destination directory for extracted audio files (required unless set in the config file)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show a live full-screen progress view")

	return cmd
}
