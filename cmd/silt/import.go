package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt/pkg/codec"
)

var importCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import notes from JSON or Markdown files",
	Long: `Import one or more files as new notes. .json files must carry a
non-empty "content" field; anything else is read as Markdown/plain text,
with an optional YAML frontmatter block.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		ctx := context.Background()
		defer app.Close(ctx)

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fatal("Error reading file", err)
			}

			note, err := codec.Import(data, filepath.Base(path), codec.FormatForPath(path))
			if err != nil {
				fatal(fmt.Sprintf("Error parsing %s", path), err)
			}

			stored, err := app.Service.Import(ctx, note)
			if err != nil {
				fatal(fmt.Sprintf("Error importing %s", path), err)
			}
			fmt.Printf("Imported %q as note %d\n", stored.Title, stored.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
