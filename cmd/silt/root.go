package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt"
)

var (
	verbose bool
	dbPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "silt",
	Short: "A local-first note store with an autosave discipline",
	Long: `Silt keeps your notes in a single embedded database.
Saves are debounced, deduplicated and serialized; deletes can be undone
for a short window; notes import from and export to JSON or Markdown.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (default: nearest silt.db, or ./silt.db)")
}

// resolveDB picks the database path: the --db flag, then the nearest
// workspace database above the working directory, then ./silt.db.
func resolveDB() string {
	if dbPath != "" {
		return dbPath
	}
	wd, err := os.Getwd()
	if err != nil {
		return silt.DatabaseName
	}
	if found, err := silt.FindDatabase(wd); err == nil {
		return found
	}
	return filepath.Join(wd, silt.DatabaseName)
}

// openApp wires a full application instance against the resolved database.
func openApp() *silt.App {
	app, err := silt.New(resolveDB(), silt.WithLogger(slog.Default()))
	if err != nil {
		fatal("Error initializing silt", err)
	}
	return app
}
