package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	notesource "github.com/aretw0/silt/pkg/adapters/lifecycle"
	"github.com/aretw0/silt/pkg/inbox"
)

var (
	watchPattern string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a drop directory and import note files as they appear",
	Long: `Watch a directory for note files. Each file that settles is parsed,
inserted as a new note, and removed from the directory. Files already
present when the watcher starts are imported too. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			fatal("Not a directory", fmt.Errorf("%s", dir))
		}

		app := openApp()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer app.Close(context.Background())

		watcher := inbox.New(app.Service, dir, watchPattern, slog.Default())
		if err := watcher.Start(ctx); err != nil {
			fatal("Error starting watcher", err)
		}

		// Echo note mutations as they land, through the supervised bridge.
		src := notesource.NewSource(app.Service.Subscribe())
		if err := src.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}
		go func() {
			for e := range src.Events() {
				fmt.Println("  event:", e.String())
			}
		}()

		fmt.Println("Watching", dir, "- drop .md/.json/.txt files to import them (Ctrl+C to stop)")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := watcher.Stop(stopCtx); err != nil {
			fatal("Error stopping watcher", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Glob filter for inbox files (default **/*.{md,json,txt})")
}
