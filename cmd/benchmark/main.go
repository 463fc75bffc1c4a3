package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doxreduce/config"
	"doxreduce/internal/adapter/fs"
	"doxreduce/internal/adapter/reducer"
)

type passStats struct {
	elapsed time.Duration
	changed int
	delta   int
}

func main() {
	dir := flag.String("dir", "html", "Path to a generated HTML directory")
	rounds := flag.Int("n", 1, "Number of rounds over the directory")
	flag.Parse()

	root, err := filepath.Abs(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(filepath.Dir(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	pipeline, err := reducer.NewPipeline(cfg.Reduce.Passes, reducer.Options{EventMarker: cfg.Reduce.EventMarker})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building pipeline: %v\n", err)
		os.Exit(1)
	}
	passes := pipeline.Passes()

	files, err := fs.NewWalker(cfg.Reduce.Includes, cfg.Reduce.Excludes).Walk(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking %s: %v\n", root, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./html [-n rounds]")
		fmt.Println("\nNo HTML files found.")
		os.Exit(1)
	}

	contents := make([]string, 0, len(files))
	var totalBytes int
	for _, f := range files {
		content, err := fs.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Path, err)
			os.Exit(1)
		}
		contents = append(contents, content)
		totalBytes += len(content)
	}

	fmt.Println("REDUCTION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Files:  %d (%d KiB)\n", len(files), totalBytes/1024)
	fmt.Printf("Passes: %d\n", len(passes))
	fmt.Printf("Rounds: %d\n", *rounds)
	fmt.Println()

	stats := make([]passStats, len(passes))
	failed := 0
	start := time.Now()

	for round := 0; round < *rounds; round++ {
	files:
		for i, content := range contents {
			out := content
			for j, p := range passes {
				t := time.Now()
				next, err := p.Apply(out)
				stats[j].elapsed += time.Since(t)
				if err != nil {
					if round == 0 {
						fmt.Printf("FAIL %s: %v\n", shortPath(root, files[i].Path), err)
						failed++
					}
					continue files
				}
				if next != out {
					stats[j].changed++
					stats[j].delta += len(next) - len(out)
				}
				out = next
			}
		}
	}
	total := time.Since(start)

	fmt.Printf("%-34s %12s %8s %10s\n", "PASS", "TIME", "CHANGED", "BYTES")
	fmt.Println(strings.Repeat("-", 70))
	for j, p := range passes {
		s := stats[j]
		fmt.Printf("%-34s %12s %8d %+10d\n", p.Name, (s.elapsed / time.Duration(*rounds)).Round(time.Microsecond),
			s.changed / *rounds, s.delta / *rounds)
	}

	fmt.Println(strings.Repeat("=", 70))
	perRound := total / time.Duration(*rounds)
	fmt.Printf("Per round: %s (%.1f files/s)\n", perRound.Round(time.Millisecond),
		float64(len(files))/perRound.Seconds())
	if failed > 0 {
		fmt.Printf("Failed:    %d files\n", failed)
		os.Exit(1)
	}
}

func shortPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
