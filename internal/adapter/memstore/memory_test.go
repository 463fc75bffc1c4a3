package memstore

import (
	"testing"

	"doxreduce/internal/domain"
)

func TestMemoryStoreEntries(t *testing.T) {
	st := NewMemoryStore()

	if err := st.PutEntry(domain.ManifestEntry{Path: "b.html", Hash: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutEntry(domain.ManifestEntry{Path: "a.html", Hash: "1"}); err != nil {
		t.Fatal(err)
	}

	entry, ok, err := st.GetEntry("a.html")
	if err != nil || !ok {
		t.Fatalf("expected entry for a.html, got ok=%v err=%v", ok, err)
	}
	if entry.Hash != "1" {
		t.Errorf("expected hash '1', got '%s'", entry.Hash)
	}

	entries, _ := st.ListEntries()
	if len(entries) != 2 || entries[0].Path != "a.html" {
		t.Errorf("expected sorted entries, got %+v", entries)
	}

	st.DeleteEntry("a.html")
	if _, ok, _ := st.GetEntry("a.html"); ok {
		t.Error("entry still present after delete")
	}
}

func TestMemoryStorePrepare(t *testing.T) {
	st := NewMemoryStore()

	reset, _ := st.Prepare("fp1")
	if reset {
		t.Error("first prepare should not reset")
	}
	st.PutEntry(domain.ManifestEntry{Path: "a.html"})

	if reset, _ := st.Prepare("fp1"); reset {
		t.Error("same fingerprint should not reset")
	}
	if reset, _ := st.Prepare("fp2"); !reset {
		t.Error("changed fingerprint should reset")
	}
	if entries, _ := st.ListEntries(); len(entries) != 0 {
		t.Errorf("expected no entries after reset, got %d", len(entries))
	}
}
