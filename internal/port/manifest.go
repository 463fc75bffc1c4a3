package port

import "doxreduce/internal/domain"

// ManifestStore remembers what doxreduce last wrote to each file.
type ManifestStore interface {
	PutEntry(entry domain.ManifestEntry) error

	GetEntry(path string) (domain.ManifestEntry, bool, error)

	DeleteEntry(path string) error

	ListEntries() ([]domain.ManifestEntry, error)

	// Prepare reconciles stored state with the current pipeline fingerprint.
	// Stored entries are dropped when the fingerprint changed.
	Prepare(fingerprint string) (reset bool, err error)

	Clear() error

	Close() error
}
