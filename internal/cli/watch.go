package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"doxreduce/internal/domain"
	"doxreduce/internal/usecase"
)

var watchCmd = &cobra.Command{
	Use:   "watch [html-dir]",
	Short: "Reduce, then keep reducing as Doxygen regenerates pages",
	Long: `Reduce the HTML directory once, then watch it and reduce files as they are
created or written. Changes are batched for 100ms. Press Ctrl-C to stop.

Examples:
  doxreduce watch
  doxreduce watch docs/html --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := htmlDir(args)
	if err != nil {
		return err
	}

	manifest, err := openManifest(path, true)
	if err != nil {
		return err
	}
	defer manifest.Close()

	reduceUC, err := newReduceUseCase(manifest, usecase.ReduceOptions{ContinueOnError: true})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := reduceUC.Reduce(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("initial reduction failed: %w", err)
	}
	printResult(result, false)

	fmt.Printf("\nWatching %s (Ctrl-C to stop)\n", path)
	return reduceUC.Watch(ctx, path, func(paths []string, result *domain.ReduceResult, err error) {
		if err != nil || result == nil {
			return
		}
		if result.FilesReduced > 0 || result.ScriptsReduced > 0 {
			fmt.Printf("Reduced %d files, %d scripts\n", result.FilesReduced, result.ScriptsReduced)
		}
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	})
}
