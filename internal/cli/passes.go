package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"doxreduce/internal/adapter/reducer"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the reduction passes in the order they run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		enabled := make(map[string]bool, len(cfg.Reduce.Passes))
		for _, name := range cfg.Reduce.Passes {
			enabled[name] = true
		}

		for i, p := range reducer.Passes(reducer.Options{EventMarker: cfg.Reduce.EventMarker}) {
			mark := " "
			if enabled[p.Name] {
				mark = "*"
			}
			fmt.Printf("%s %2d. %-32s %s\n", mark, i+1, p.Name, p.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passesCmd)
}
