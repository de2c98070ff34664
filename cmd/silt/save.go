package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt/pkg/autosave"
	"github.com/aretw0/silt/pkg/core"
)

var (
	saveID       int64
	saveTitle    string
	saveContent  string
	saveFile     string
	saveTags     string
	saveCategory string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a note (create with no --id, update with one)",
	Long: `Save a note through the same serialization path the autosave uses.
Content comes from --content, or from a file with --file ("-" reads stdin).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := saveContent
		if saveFile != "" {
			var data []byte
			var err error
			if saveFile == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(saveFile)
			}
			if err != nil {
				fatal("Error reading content file", err)
			}
			content = string(data)
		}

		app := openApp()
		ctx := context.Background()
		defer app.Close(ctx)

		app.Coordinator.SaveNow(autosave.Snapshot{
			Target:   saveID,
			Title:    saveTitle,
			Content:  content,
			Tags:     core.NormalizeTags(saveTags),
			Category: core.Category(saveCategory),
		})

		flushCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := app.Coordinator.Flush(flushCtx); err != nil {
			fatal("Save did not complete", err)
		}

		if saveID != 0 {
			fmt.Println("Saved note", saveID)
			return
		}
		fmt.Println("Created note", app.Service.EditingID())
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().Int64Var(&saveID, "id", 0, "Note id to update (0 creates a new note)")
	saveCmd.Flags().StringVar(&saveTitle, "title", "", "Note title (empty falls back to Untitled N)")
	saveCmd.Flags().StringVar(&saveContent, "content", "", "Note content")
	saveCmd.Flags().StringVar(&saveFile, "file", "", "Read content from a file (- for stdin)")
	saveCmd.Flags().StringVar(&saveTags, "tags", "", "Comma-separated tags")
	saveCmd.Flags().StringVar(&saveCategory, "category", "", "Category (personal|work|ideas, inferred from tags when empty)")
}
