package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doxreduce/internal/domain"
	"doxreduce/internal/usecase"
)

var (
	statusJSON    bool
	statusVerbose bool
)

var statusCmd = &cobra.Command{
	Use:   "status [html-dir]",
	Short: "Show which files are already reduced",
	Long: `Compare every selected file in the HTML directory against the manifest.
A file is reduced when its content is exactly what doxreduce last wrote, and
pending otherwise.

Examples:
  doxreduce status
  doxreduce status docs/html --verbose
  doxreduce status --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "list every file")
}

type statusOutput struct {
	Reduced int           `json:"reduced"`
	Pending int           `json:"pending"`
	Files   []statusEntry `json:"files"`
}

type statusEntry struct {
	Path      string `json:"path"`
	State     string `json:"state"`
	ReducedAt string `json:"reduced_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	path, err := htmlDir(args)
	if err != nil {
		return err
	}

	manifest, err := openManifest(path, false)
	if err != nil {
		return err
	}
	defer manifest.Close()

	reduceUC, err := newReduceUseCase(manifest, usecase.ReduceOptions{})
	if err != nil {
		return err
	}

	statuses, err := reduceUC.Status(path)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	out := statusOutput{Files: make([]statusEntry, 0, len(statuses))}
	for _, s := range statuses {
		entry := statusEntry{Path: s.Path, State: string(s.State)}
		if s.Entry != nil {
			entry.ReducedAt = s.Entry.ReducedAt.Format("2006-01-02 15:04:05")
		}
		if s.State == domain.StateReduced {
			out.Reduced++
		} else {
			out.Pending++
		}
		out.Files = append(out.Files, entry)
	}

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if statusVerbose {
		for _, f := range out.Files {
			fmt.Printf("%-8s %s\n", f.State, f.Path)
		}
		fmt.Println()
	}
	fmt.Printf("Reduced: %d\n", out.Reduced)
	fmt.Printf("Pending: %d\n", out.Pending)
	return nil
}
