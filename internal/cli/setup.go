package cli

import (
	"fmt"
	"os"

	"doxreduce/config"
	"doxreduce/internal/adapter/fs"
	"doxreduce/internal/adapter/memstore"
	"doxreduce/internal/adapter/reducer"
	"doxreduce/internal/adapter/store"
	"doxreduce/internal/port"
	"doxreduce/internal/usecase"
)

// openManifest opens the manifest kept in dir's state directory. An
// in-memory one stands in when the manifest is disabled, or when it does not
// exist and create is false.
func openManifest(dir string, create bool) (port.ManifestStore, error) {
	if !GetConfig().Manifest.Enabled {
		return memstore.NewMemoryStore(), nil
	}

	if !create {
		if _, err := os.Stat(config.ManifestDBPath(dir)); os.IsNotExist(err) {
			return memstore.NewMemoryStore(), nil
		}
	} else {
		if err := config.EnsureStateDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create .doxreduce directory: %w", err)
		}
	}

	st, err := store.NewBoltStore(config.ManifestDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	return st, nil
}

// newReduceUseCase wires the configured pipeline, file adapters and
// manifest into a use case.
func newReduceUseCase(manifest port.ManifestStore, opts usecase.ReduceOptions) (*usecase.ReduceUseCase, error) {
	cfg := GetConfig()

	pipeline, err := reducer.NewPipeline(cfg.Reduce.Passes, reducer.Options{EventMarker: cfg.Reduce.EventMarker})
	if err != nil {
		return nil, err
	}

	if opts.Jobs == 0 {
		opts.Jobs = cfg.Reduce.Jobs
	}
	opts.ContinueOnError = opts.ContinueOnError || cfg.Reduce.ContinueOnError
	opts.Scripts = cfg.Scripts.Files

	return usecase.NewReduceUseCase(
		fs.NewWalker(cfg.Reduce.Includes, cfg.Reduce.Excludes),
		fs.NewRewriter(opts.DryRun),
		manifest,
		pipeline,
		reducer.NewLabelReducer(cfg.Scripts.Labels),
		GetLogger(),
		opts,
	), nil
}
