package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt/pkg/codec"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a note to JSON or Markdown",
	Long: `Export a note by its id. Writes to --out when given, otherwise to a
file named after the note's title in the current directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		format, err := codec.ParseFormat(exportFormat)
		if err != nil {
			fatal("Invalid format", err)
		}

		app := openApp()
		ctx := context.Background()
		defer app.Close(ctx)

		note, err := app.Service.Get(ctx, id)
		if err != nil {
			fatal("Error loading note", err)
		}

		data, err := codec.Export(note, format)
		if err != nil {
			fatal("Error serializing note", err)
		}

		out := exportOut
		if out == "" {
			out = codec.Filename(note, format)
		}
		if out == "-" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			fatal("Error writing file", err)
		}
		fmt.Println("Exported note", id, "to", out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Export format (json|markdown)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (- for stdout)")
}
