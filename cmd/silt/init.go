package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a silt database in the current directory",
	Long:  `Create and initialize an empty note database (silt.db) in the current directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		path := dbPath
		if path == "" {
			path = filepath.Join(cwd, silt.DatabaseName)
		}
		if _, err := os.Stat(path); err == nil {
			fatal("Database already exists", fmt.Errorf("%s", path))
		}

		store, err := silt.Init(path)
		if err != nil {
			fatal("Failed to initialize database", err)
		}
		if err := store.Close(); err != nil {
			fatal("Failed to close database", err)
		}

		fmt.Println("Initialized empty Silt database at", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
