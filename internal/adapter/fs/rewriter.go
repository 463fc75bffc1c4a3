package fs

import (
	"fmt"
	"io"
	"os"

	"doxreduce/internal/port"
)

// Rewriter overwrites files in place through a single read-write handle.
// The rewrite is not atomic: a failure while writing leaves a partial file.
type Rewriter struct {
	DryRun bool
}

func NewRewriter(dryRun bool) *Rewriter {
	return &Rewriter{DryRun: dryRun}
}

// Rewrite reads path in full, passes it through fn, and if the output differs
// rewinds the handle, writes the output and truncates to its length.
func (r *Rewriter) Rewrite(path string, fn port.RewriteFunc) (result port.RewriteResult, err error) {
	flag := os.O_RDWR
	if r.DryRun {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return result, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return result, fmt.Errorf("read: %w", err)
	}
	result.Input = string(data)
	result.Output = result.Input

	out, err := fn(result.Input)
	if err != nil {
		return result, err
	}
	result.Output = out

	if out == result.Input || r.DryRun {
		return result, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return result, fmt.Errorf("seek: %w", err)
	}
	if _, err := io.WriteString(f, out); err != nil {
		return result, fmt.Errorf("write: %w", err)
	}
	if err := f.Truncate(int64(len(out))); err != nil {
		return result, fmt.Errorf("truncate: %w", err)
	}
	result.Written = true

	return result, nil
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
