package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/config"
)

// cfg is loaded at package initialisation so every command's init can use
// it for flag defaults.
var cfg, cfgErr = config.Load(".env")

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "csmap",
	Short: "CS2 replay map visualiser",
	Long:  "Parse CS2 .dem files and draw player positions, kills, damage and grenades on the map radar.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return fmt.Errorf("config: %w", cfgErr)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database (env CSMAP_DB)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}
