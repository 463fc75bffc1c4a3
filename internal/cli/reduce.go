package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"doxreduce/internal/domain"
	"doxreduce/internal/usecase"
)

var (
	reduceForce           bool
	reduceDryRun          bool
	reduceJobs            int
	reduceContinueOnError bool
	reducePasses          []string
	reduceNoProgress      bool
)

var reduceCmd = &cobra.Command{
	Use:   "reduce [html-dir]",
	Short: "Rewrite generated HTML for the theme",
	Long: `Run the reduction pipeline over every selected file in the HTML directory,
then re-case the labels in the navigation scripts.

Files whose content is what doxreduce last wrote are skipped unless --force
is given. The manifest is stored in .doxreduce/manifest.db within the HTML
directory.

Examples:
  doxreduce reduce                         # Reduce ./html
  doxreduce reduce docs/html --jobs 4      # Reduce in parallel
  doxreduce reduce --passes singly-capitalize,footerize-see-section`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReduce,
}

func init() {
	rootCmd.AddCommand(reduceCmd)
	reduceCmd.Flags().BoolVar(&reduceForce, "force", false, "reduce files even when the manifest says they are current")
	reduceCmd.Flags().BoolVar(&reduceDryRun, "dry-run", false, "report what would change without writing")
	reduceCmd.Flags().IntVarP(&reduceJobs, "jobs", "j", 0, "files reduced concurrently (default from config)")
	reduceCmd.Flags().BoolVar(&reduceContinueOnError, "continue-on-error", false, "leave failing files untouched and carry on")
	reduceCmd.Flags().StringSliceVar(&reducePasses, "passes", nil, "comma-separated subset of passes to run")
	reduceCmd.Flags().BoolVar(&reduceNoProgress, "no-progress", false, "disable the progress bar")
}

func runReduce(cmd *cobra.Command, args []string) error {
	path, err := htmlDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	if len(reducePasses) > 0 {
		cfg.Reduce.Passes = reducePasses
	}

	manifest, err := openManifest(path, !reduceDryRun)
	if err != nil {
		return err
	}
	defer manifest.Close()

	reduceUC, err := newReduceUseCase(manifest, usecase.ReduceOptions{
		Force:           reduceForce,
		DryRun:          reduceDryRun,
		Jobs:            reduceJobs,
		ContinueOnError: reduceContinueOnError,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log := GetLogger()
	log.Info("Reducing the output's HTML...", "dir", path)

	var progress usecase.ProgressFunc
	if !reduceNoProgress {
		progress = newProgress("Reducing")
	}

	start := time.Now()
	result, err := reduceUC.Reduce(ctx, path, progress)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return fmt.Errorf("reduction interrupted")
		}
		return fmt.Errorf("reduction failed: %w", err)
	}
	log.Info("reduction finished", "duration", time.Since(start).Round(time.Millisecond))

	printResult(result, reduceDryRun)

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d files could not be reduced", len(result.Errors))
	}
	return nil
}

// newProgress returns a progress callback that draws a bar once the total
// is known.
func newProgress(label string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		_ = bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", label, formatDuration(eta)))
			}
		}
	}
}

func printResult(result *domain.ReduceResult, dryRun bool) {
	if dryRun {
		fmt.Printf("\nDry run (nothing written):\n")
	} else {
		fmt.Printf("\nReduction complete:\n")
	}
	fmt.Printf("  Files reduced:   %d\n", result.FilesReduced)
	fmt.Printf("  Files unchanged: %d\n", result.FilesUnchanged)
	fmt.Printf("  Files skipped:   %d (already reduced)\n", result.FilesSkipped)
	if result.FilesPruned > 0 {
		fmt.Printf("  Files pruned:    %d (removed)\n", result.FilesPruned)
	}
	fmt.Printf("  Scripts reduced: %d\n", result.ScriptsReduced)

	if len(result.Errors) > 0 {
		fmt.Printf("\nFailed:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
