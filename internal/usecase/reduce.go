package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"doxreduce/internal/domain"
	"doxreduce/internal/port"
)

// ReduceOptions control a reduction run.
type ReduceOptions struct {
	// Force reduces files even when the manifest says they are current.
	Force bool
	// DryRun computes results without writing files or the manifest.
	DryRun bool
	Jobs   int
	// ContinueOnError records per-file failures instead of aborting the run.
	ContinueOnError bool
	// Scripts are navigation scripts, relative to the root, whose labels
	// are re-cased after the HTML files.
	Scripts []string
}

// ProgressFunc is called after each HTML file is handled.
type ProgressFunc func(done, total int, path string)

// ReduceUseCase reduces a directory of generated documentation in place.
type ReduceUseCase struct {
	walker   port.FileWalker
	rewriter port.FileRewriter
	manifest port.ManifestStore
	reducer  port.Reducer
	scripts  port.ScriptReducer
	logger   *slog.Logger
	opts     ReduceOptions
}

// NewReduceUseCase creates a new reduce use case.
func NewReduceUseCase(
	walker port.FileWalker,
	rewriter port.FileRewriter,
	manifest port.ManifestStore,
	reducer port.Reducer,
	scripts port.ScriptReducer,
	logger *slog.Logger,
	opts ReduceOptions,
) *ReduceUseCase {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReduceUseCase{
		walker:   walker,
		rewriter: rewriter,
		manifest: manifest,
		reducer:  reducer,
		scripts:  scripts,
		logger:   logger,
		opts:     opts,
	}
}

type outcome int

const (
	outcomeReduced outcome = iota
	outcomeUnchanged
	outcomeSkipped
)

// Reduce runs the pipeline over every selected file under root, then over
// the navigation scripts.
func (u *ReduceUseCase) Reduce(ctx context.Context, root string, progress ProgressFunc) (*domain.ReduceResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := u.prepare(); err != nil {
		return nil, err
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	u.logger.Debug("selected files", "root", root, "count", len(files))

	result := &domain.ReduceResult{}
	if err := u.reduceFiles(ctx, root, files, result, progress); err != nil {
		return result, err
	}

	if err := u.prune(root, files, result); err != nil {
		return result, err
	}

	if err := u.reduceScripts(root, u.opts.Scripts, result); err != nil {
		return result, err
	}

	return result, nil
}

// ReduceFiles reduces the given paths that the walker selects. It is used
// by the watcher, so files already matching the manifest are skipped.
func (u *ReduceUseCase) ReduceFiles(ctx context.Context, root string, paths []string) (*domain.ReduceResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	isScript := make(map[string]bool, len(u.opts.Scripts))
	for _, name := range u.opts.Scripts {
		isScript[name] = true
	}

	var files []domain.File
	var scripts []string
	for _, p := range paths {
		if rel := relPath(root, p); isScript[rel] {
			scripts = append(scripts, rel)
			continue
		}
		if !u.walker.Match(root, p) {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, domain.File{Path: p, ModTime: info.ModTime(), Size: info.Size()})
	}

	result := &domain.ReduceResult{}
	if err := u.reduceFiles(ctx, root, files, result, nil); err != nil {
		return result, err
	}
	return result, u.reduceScripts(root, scripts, result)
}

func (u *ReduceUseCase) prepare() error {
	if u.opts.DryRun {
		return nil
	}
	reset, err := u.manifest.Prepare(u.reducer.Fingerprint())
	if err != nil {
		return fmt.Errorf("failed to prepare manifest: %w", err)
	}
	if reset {
		u.logger.Info("pipeline configuration changed, reducing every file again")
	}
	return nil
}

func (u *ReduceUseCase) reduceFiles(ctx context.Context, root string, files []domain.File, result *domain.ReduceResult, progress ProgressFunc) error {
	var mu sync.Mutex
	done := 0

	record := func(file domain.File, o outcome, err error) error {
		mu.Lock()
		defer mu.Unlock()

		done++
		if progress != nil {
			progress(done, len(files), file.Path)
		}

		if err != nil {
			rel := relPath(root, file.Path)
			if !u.opts.ContinueOnError {
				return domain.FileError{Path: rel, Err: err}
			}
			u.logger.Warn("failed to reduce file", "path", rel, "error", err)
			result.Errors = append(result.Errors, domain.FileError{Path: rel, Err: err})
			return nil
		}

		switch o {
		case outcomeReduced:
			result.FilesReduced++
		case outcomeUnchanged:
			result.FilesUnchanged++
		case outcomeSkipped:
			result.FilesSkipped++
		}
		return nil
	}

	if u.opts.Jobs == 1 {
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := u.reduceFile(root, file)
			if err := record(file, o, err); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.Jobs)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := u.reduceFile(root, file)
			return record(file, o, err)
		})
	}
	return g.Wait()
}

// reduceFile rewrites one file and records its output in the manifest.
func (u *ReduceUseCase) reduceFile(root string, file domain.File) (outcome, error) {
	rel := relPath(root, file.Path)

	var recorded string
	if !u.opts.Force {
		entry, ok, err := u.manifest.GetEntry(rel)
		if err != nil {
			return 0, fmt.Errorf("failed to read manifest: %w", err)
		}
		if ok {
			recorded = entry.Hash
		}
	}

	res, err := u.rewriter.Rewrite(file.Path, func(content string) (string, error) {
		if recorded != "" && hashContent(content) == recorded {
			return "", port.ErrSkipFile
		}
		return u.reducer.Reduce(content)
	})
	if errors.Is(err, port.ErrSkipFile) {
		u.logger.Debug("already reduced", "path", rel)
		return outcomeSkipped, nil
	}
	if err != nil {
		return 0, err
	}

	if !u.opts.DryRun {
		err := u.manifest.PutEntry(domain.ManifestEntry{
			Path:      rel,
			Hash:      hashContent(res.Output),
			Size:      int64(len(res.Output)),
			ReducedAt: time.Now(),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to update manifest: %w", err)
		}
	}

	if res.Output == res.Input {
		u.logger.Debug("unchanged", "path", rel)
		return outcomeUnchanged, nil
	}
	u.logger.Debug("reduced", "path", rel, "bytes_before", len(res.Input), "bytes_after", len(res.Output))
	return outcomeReduced, nil
}

// prune drops manifest entries for files that no longer exist.
func (u *ReduceUseCase) prune(root string, files []domain.File, result *domain.ReduceResult) error {
	if u.opts.DryRun {
		return nil
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[relPath(root, f.Path)] = true
	}

	entries, err := u.manifest.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to list manifest: %w", err)
	}
	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		if err := u.manifest.DeleteEntry(e.Path); err != nil {
			return fmt.Errorf("failed to prune %s: %w", e.Path, err)
		}
		result.FilesPruned++
	}
	return nil
}

func (u *ReduceUseCase) reduceScripts(root string, names []string, result *domain.ReduceResult) error {
	if u.scripts == nil {
		return nil
	}
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			u.logger.Debug("script not found", "path", name)
			continue
		}

		res, err := u.rewriter.Rewrite(path, func(js string) (string, error) {
			return u.scripts.ReduceScript(js), nil
		})
		if err != nil {
			if !u.opts.ContinueOnError {
				return domain.FileError{Path: name, Err: err}
			}
			u.logger.Warn("failed to reduce script", "path", name, "error", err)
			result.Errors = append(result.Errors, domain.FileError{Path: name, Err: err})
			continue
		}
		if res.Output != res.Input {
			result.ScriptsReduced++
		}
	}
	return nil
}

// Status reports, for each selected file, whether its content is what
// doxreduce last wrote.
func (u *ReduceUseCase) Status(root string) ([]domain.FileStatus, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	statuses := make([]domain.FileStatus, 0, len(files))
	for _, f := range files {
		rel := relPath(root, f.Path)
		status := domain.FileStatus{Path: rel, State: domain.StatePending}

		entry, ok, err := u.manifest.GetEntry(rel)
		if err != nil {
			return nil, err
		}
		if ok {
			status.Entry = &entry
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, err
			}
			if hashContent(string(data)) == entry.Hash {
				status.State = domain.StateReduced
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Reset forgets every recorded file.
func (u *ReduceUseCase) Reset() error {
	return u.manifest.Clear()
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func hashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
