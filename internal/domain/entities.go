package domain

import "time"

// File is a generated documentation file selected for reduction.
type File struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ManifestEntry records the output doxreduce last wrote to a file.
type ManifestEntry struct {
	Path      string
	Hash      string
	Size      int64
	ReducedAt time.Time
}

// FileError is a per-file failure collected when failures are isolated.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// ReduceResult contains the results of a reduction run.
type ReduceResult struct {
	FilesReduced   int
	FilesUnchanged int
	FilesSkipped   int
	FilesPruned    int
	ScriptsReduced int
	Errors         []FileError
}

// Total returns the number of HTML files the run looked at.
func (r *ReduceResult) Total() int {
	return r.FilesReduced + r.FilesUnchanged + r.FilesSkipped + len(r.Errors)
}

// FileState describes a file relative to the manifest.
type FileState string

const (
	StateReduced FileState = "reduced"
	StatePending FileState = "pending"
)

// FileStatus pairs a file with its manifest state.
type FileStatus struct {
	Path  string
	State FileState
	Entry *ManifestEntry
}
