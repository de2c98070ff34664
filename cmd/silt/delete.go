package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	deleteNoPrompt bool
)

// The undo buffer lives in the application instance, so the restore window
// only exists while this process runs. The command therefore holds the
// window open itself and offers the undo affordance on stdin.
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note (undoable for 10 seconds)",
	Long: `Delete a note by its id. For 10 seconds the command waits: type 'u'
and press Enter to restore the note (it comes back under a new id).
Pass --yes to skip the window and delete immediately.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		app := openApp()
		ctx := context.Background()
		defer app.Close(ctx)

		if err := app.Service.Delete(ctx, id); err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Println("Deleted note", id)

		if deleteNoPrompt {
			return
		}

		fmt.Println("Press 'u' + Enter within 10s to undo...")
		input := make(chan string, 1)
		go func() {
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			input <- strings.TrimSpace(line)
		}()

		select {
		case line := <-input:
			if strings.EqualFold(line, "u") {
				restored, err := app.Service.Undo(ctx)
				if err != nil {
					fatal("Error restoring note", err)
				}
				fmt.Printf("Restored %q as note %d\n", restored.Title, restored.ID)
			}
		case <-time.After(10 * time.Second):
			// Window elapsed; the delete stands.
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteNoPrompt, "yes", false, "Delete immediately without the undo window")
}
