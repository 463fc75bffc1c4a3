package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doxreduce/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset [html-dir]",
	Short: "Forget which files were reduced",
	Long: `Clear the manifest so the next reduction processes every file again.
Reduced files themselves are not touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	path, err := htmlDir(args)
	if err != nil {
		return err
	}

	if _, err := os.Stat(config.ManifestDBPath(path)); os.IsNotExist(err) {
		fmt.Println("No manifest found, nothing to reset.")
		return nil
	}

	manifest, err := openManifest(path, false)
	if err != nil {
		return err
	}
	defer manifest.Close()

	if err := manifest.Clear(); err != nil {
		return fmt.Errorf("failed to clear manifest: %w", err)
	}
	fmt.Printf("Manifest cleared: %s\n", config.ManifestDBPath(path))
	return nil
}
