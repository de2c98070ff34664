package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin [id]",
	Short: "Toggle a note's pinned flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		app := openApp()
		ctx := context.Background()
		defer app.Close(ctx)

		note, err := app.Service.TogglePin(ctx, id)
		if err != nil {
			fatal("Error toggling pin", err)
		}
		if note.Pinned {
			fmt.Printf("Pinned %q\n", note.Title)
		} else {
			fmt.Printf("Unpinned %q\n", note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}
