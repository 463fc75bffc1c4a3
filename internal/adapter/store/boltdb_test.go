package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doxreduce/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStoreEntries(t *testing.T) {
	st := openStore(t)

	at := time.Unix(1700000000, 0)
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "b.html", Hash: "h2", Size: 20, ReducedAt: at}))
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "a.html", Hash: "h1", Size: 10, ReducedAt: at}))

	entry, ok, err := st.GetEntry("a.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h1", entry.Hash)
	assert.Equal(t, int64(10), entry.Size)
	assert.True(t, entry.ReducedAt.Equal(at))

	_, ok, err = st.GetEntry("missing.html")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := st.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.html", entries[0].Path)
	assert.Equal(t, "b.html", entries[1].Path)

	require.NoError(t, st.DeleteEntry("a.html"))
	entries, err = st.ListEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBoltStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	st, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "index.html", Hash: "abc"}))
	require.NoError(t, st.Close())

	st, err = NewBoltStore(path)
	require.NoError(t, err)
	defer st.Close()

	entry, ok, err := st.GetEntry("index.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", entry.Hash)
}

func TestPrepareInitializesSchema(t *testing.T) {
	st := openStore(t)

	check, err := st.CheckMigration("fp1")
	require.NoError(t, err)
	assert.True(t, check.NeedsMigration)
	assert.False(t, check.NeedsReset)

	reset, err := st.Prepare("fp1")
	require.NoError(t, err)
	assert.False(t, reset)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, "fp1", info.Fingerprint)
}

func TestPrepareKeepsEntriesForSameFingerprint(t *testing.T) {
	st := openStore(t)

	_, err := st.Prepare("fp1")
	require.NoError(t, err)
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "index.html", Hash: "abc"}))

	reset, err := st.Prepare("fp1")
	require.NoError(t, err)
	assert.False(t, reset)

	_, ok, err := st.GetEntry("index.html")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrepareResetsOnFingerprintChange(t *testing.T) {
	st := openStore(t)

	_, err := st.Prepare("fp1")
	require.NoError(t, err)
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "index.html", Hash: "abc"}))

	check, err := st.CheckMigration("fp2")
	require.NoError(t, err)
	assert.True(t, check.NeedsReset)
	assert.Equal(t, "pipeline configuration changed", check.Reason)

	reset, err := st.Prepare("fp2")
	require.NoError(t, err)
	assert.True(t, reset)

	entries, err := st.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, "fp2", info.Fingerprint)
}

func TestPrepareResetsNewerSchema(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1, Fingerprint: "fp1"}))
	require.NoError(t, st.PutEntry(domain.ManifestEntry{Path: "index.html", Hash: "abc"}))

	reset, err := st.Prepare("fp1")
	require.NoError(t, err)
	assert.True(t, reset)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
}
