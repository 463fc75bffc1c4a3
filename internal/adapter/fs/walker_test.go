package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doxreduce/internal/port"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWalkerSelectsTopLevelHTML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<p>a</p>")
	writeFile(t, filepath.Join(root, "files.html"), "<p>b</p>")
	writeFile(t, filepath.Join(root, "menudata.js"), "var x;")
	writeFile(t, filepath.Join(root, "search", "all_0.html"), "<p>c</p>")
	writeFile(t, filepath.Join(root, ".doxreduce", "stale.html"), "<p>d</p>")

	files, err := NewWalker(nil, nil).Walk(root)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
		assert.True(t, filepath.IsAbs(f.Path))
		assert.NotZero(t, f.Size)
	}
	assert.Equal(t, []string{"files.html", "index.html"}, names)
}

func TestWalkerRecursiveWithExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "x")
	writeFile(t, filepath.Join(root, "search", "all_0.html"), "x")
	writeFile(t, filepath.Join(root, "sub", "page.html"), "x")

	w := NewWalker([]string{"**/*.html"}, []string{"search/**"})
	files, err := w.Walk(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f.Path)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"index.html", "sub/page.html"}, rel)
}

func TestWalkerMatch(t *testing.T) {
	w := NewWalker([]string{"*.html"}, []string{"test_*.html"})

	assert.True(t, w.Match("/docs", "/docs/index.html"))
	assert.False(t, w.Match("/docs", "/docs/test_a.html"))
	assert.False(t, w.Match("/docs", "/docs/sub/index.html"))
	assert.False(t, w.Match("/docs", "/docs/menudata.js"))
}

func TestRewriterOverwritesAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "<p>a&nbsp;long&nbsp;body</p>")

	res, err := NewRewriter(false).Rewrite(path, func(s string) (string, error) {
		return strings.ReplaceAll(s, "&nbsp;", ""), nil
	})
	require.NoError(t, err)
	assert.True(t, res.Written)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>alongbody</p>", got)
}

func TestRewriterUnchangedIsNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "<p>same</p>")

	res, err := NewRewriter(false).Rewrite(path, func(s string) (string, error) { return s, nil })
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Equal(t, res.Input, res.Output)
}

func TestRewriterDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "before")

	res, err := NewRewriter(true).Rewrite(path, func(string) (string, error) { return "after", nil })
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Equal(t, "after", res.Output)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before", got)
}

func TestRewriterPropagatesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "before")

	_, err := NewRewriter(false).Rewrite(path, func(string) (string, error) { return "", port.ErrSkipFile })
	assert.True(t, errors.Is(err, port.ErrSkipFile))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before", got)
}

func TestRewriterMissingFile(t *testing.T) {
	_, err := NewRewriter(false).Rewrite(filepath.Join(t.TempDir(), "nope.html"), func(s string) (string, error) { return s, nil })
	assert.Error(t, err)
}

func TestRewriterWritePathClosesCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "<p>one two three</p>")

	rw := NewRewriter(false)
	for _, want := range []string{"<p>one two</p>", "<p>one</p>"} {
		res, err := rw.Rewrite(path, func(string) (string, error) { return want, nil })
		require.NoError(t, err)
		assert.True(t, res.Written)

		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
