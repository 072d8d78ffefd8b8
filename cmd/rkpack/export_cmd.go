package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naari3/rkpack/internal/ui"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <output>",
		Short: "Export the encrypted Library DB to a plaintext SQLite file",
		Long: `export decrypts the whole Library DB and writes it out as a plain,
unencrypted SQLite file via SQLCipher's sqlcipher_export() — useful for
inspecting the database with ordinary SQLite tools. It never touches rkpack's
own pack/unpack path; it's a convenience wrapper around the decrypting
driver's own export primitive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			abs, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if _, err := os.Stat(abs); err == nil {
				return fmt.Errorf("file already exists: %s", abs)
			}

			db, err := openDBFromFlags(true)
			if err != nil {
				return err
			}
			defer db.Close()

			exportPath := strings.ReplaceAll(abs, `\`, "/")
			if _, err := db.Exec(fmt.Sprintf("ATTACH DATABASE '%s' AS plaintext KEY ''", exportPath)); err != nil {
				return fmt.Errorf("attach export database: %w", err)
			}
			if _, err := db.Exec("SELECT sqlcipher_export('plaintext')"); err != nil {
				return fmt.Errorf("sqlcipher_export: %w", err)
			}
			if _, err := db.Exec("DETACH DATABASE plaintext"); err != nil {
				return fmt.Errorf("detach export database: %w", err)
			}

			fmt.Println(ui.Success("export complete:"), abs)
			return nil
		},
	}
}
