package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/silt/pkg/core"
)

var (
	listJSON       bool
	filterTag      string
	filterCategory string
	listPage       int
	listPageSize   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		defer app.Close(context.Background())

		notes := app.Service.List()

		// Filter
		var filtered []core.Note
		for _, note := range notes {
			if filterTag != "" {
				hasTag := false
				for _, tag := range note.Tags {
					if tag == filterTag {
						hasTag = true
						break
					}
				}
				if !hasTag {
					continue
				}
			}
			if filterCategory != "" && note.Category != core.Category(filterCategory) {
				continue
			}
			filtered = append(filtered, note)
		}

		// Paginate
		if listPageSize > 0 {
			start := (listPage - 1) * listPageSize
			if start < 0 {
				start = 0
			}
			if start >= len(filtered) {
				filtered = nil
			} else {
				end := start + listPageSize
				if end > len(filtered) {
					end = len(filtered)
				}
				filtered = filtered[start:end]
			}
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, note := range filtered {
			pin := " "
			if note.Pinned {
				pin = "*"
			}
			line := fmt.Sprintf("%s %4d  %s  %s", pin, note.ID, note.Date, note.Title)
			if len(note.Tags) > 0 {
				line += fmt.Sprintf("  [%s]", strings.Join(note.Tags, ", "))
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "Filter notes by category")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Notes per page (0 = all)")
}
