package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reviewassist/reviewctl/internal/domain"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return &FileStore{path: filepath.Join(t.TempDir(), "runs.jsonl")}
}

func testRecord(id string, mode domain.RunMode, started time.Time) domain.RunRecord {
	return domain.RunRecord{
		ID:         id,
		Mode:       mode,
		StartedAt:  started,
		DurationMS: 1200,
		Passed:     10,
		Warned:     1,
	}
}

func TestFileStoreSaveAndRecords(t *testing.T) {
	store := newTestFileStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, mode := range []domain.RunMode{domain.RunModeProbe, domain.RunModeDeploy, domain.RunModeVerify} {
		rec := testRecord(string(rune('a'+i)), mode, base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Mode != domain.RunModeVerify {
		t.Errorf("newest record should come first, got %s", records[0].Mode)
	}
	if records[2].Mode != domain.RunModeProbe {
		t.Errorf("oldest record should come last, got %s", records[2].Mode)
	}
}

func TestFileStoreLimit(t *testing.T) {
	store := newTestFileStore(t)
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		if err := store.Save(testRecord(string(rune('a'+i)), domain.RunModeProbe, base)); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := store.Records(2)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
	if records[0].ID != "e" {
		t.Errorf("limit should keep the newest records, got %q first", records[0].ID)
	}
}

func TestFileStoreEmpty(t *testing.T) {
	store := newTestFileStore(t)

	records, err := store.Records(10)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from an empty store", len(records))
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save(testRecord("a", domain.RunModeDeploy, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	file, err := os.OpenFile(store.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	file.WriteString("{truncated\n")
	file.Close()

	if err := store.Save(testRecord("b", domain.RunModeVerify, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2 with the corrupt line skipped", len(records))
	}
}

func TestFileStoreClear(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save(testRecord("a", domain.RunModeProbe, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records after Clear", len(records))
	}

	// Clearing an already-empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear error: %v", err)
	}
}
