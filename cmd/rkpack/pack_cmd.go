package main

import (
	"fmt"
	"os"
	"time"

	"github.com/naari3/rkpack/internal/pack"
	"github.com/naari3/rkpack/internal/progress"
	"github.com/naari3/rkpack/internal/ui"
	"github.com/naari3/rkpack/internal/ui/progresstui"
	"github.com/spf13/cobra"
)

func newPackCmd() *cobra.Command {
	var playlistName string
	var keepStructure bool
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "pack <output>",
		Short: "Pack a playlist and its full relational/media closure into a .rkp archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			if !cmd.Flags().Changed("keep-structure") {
				keepStructure = cfg.Pack.KeepStructure
			}

			db, err := openDBFromFlags(true)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := pack.Options{
				PlaylistName:  playlistName,
				OutputPath:    output,
				KeepStructure: keepStructure,
			}

			var stats pack.Stats
			started := time.Now()
			run := func(sink progress.Sink) error {
				s, err := pack.Run(cmd.Context(), db, opts, sink)
				stats = s
				return err
			}

			if useTUI {
				err = progresstui.Run("packing '"+playlistName+"'", run)
			} else {
				err = run(progress.Stdout())
			}
			if err != nil {
				return err
			}

			ui.Section("pack complete")
			fmt.Println(ui.Path(output))
			if info, statErr := os.Stat(output); statErr == nil {
				fmt.Println("size:", ui.FormatBytes(info.Size()))
			}
			fmt.Println("elapsed:", ui.FormatDuration(time.Since(started)))
			fmt.Printf("audio: %d copied, %d skipped, %d failed\n", stats.AudioCopied, stats.AudioSkipped, stats.AudioFailed)
			fmt.Printf("content data: %d copied, %d skipped, %d failed\n", stats.ContentDataCopied, stats.ContentDataSkipped, stats.ContentDataFailed)
			return nil
		},
	}

	cmd.Flags().StringVar(&playlistName, "playlist", "", "playlist name to pack (required)")
	cmd.Flags().BoolVar(&keepStructure, "keep-structure", false, "preserve the source audio directory structure inside the archive")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show a live full-screen progress view")
	cmd.MarkFlagRequired("playlist")

	return cmd
}
