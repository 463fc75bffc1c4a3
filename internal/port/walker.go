package port

import (
	"errors"

	"doxreduce/internal/domain"
)

// ErrSkipFile may be returned by a RewriteFunc to leave the file untouched.
var ErrSkipFile = errors.New("skip file")

type FileWalker interface {
	Walk(root string) ([]domain.File, error)

	// Match reports whether path, relative to root, is selected.
	Match(root, path string) bool
}

// RewriteFunc maps a file's full content to its replacement.
type RewriteFunc func(content string) (string, error)

type FileRewriter interface {
	Rewrite(path string, fn RewriteFunc) (RewriteResult, error)
}

type RewriteResult struct {
	Input   string
	Output  string
	Written bool
}
