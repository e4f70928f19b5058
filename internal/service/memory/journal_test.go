package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	memorymodel "github.com/hearthlabs/hearth/backend/internal/model/memory"
	memory "github.com/hearthlabs/hearth/backend/internal/service/memory"
)

func newTestJournal(t *testing.T) (*memory.Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := memory.NewJournal(path)
	if err != nil {
		t.Fatalf("NewJournal err: %v", err)
	}
	return j, path
}

func TestAppendAndRecent(t *testing.T) {
	j, _ := newTestJournal(t)

	for _, persona := range []string{"mia", "solene", "doc"} {
		err := j.Append(memorymodel.Entry{
			ThreadID: "thread-1",
			Persona:  persona,
			Trigger:  "text",
			Summary:  "hello " + persona,
		})
		if err != nil {
			t.Fatalf("Append err: %v", err)
		}
	}

	entries, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Persona != "solene" || entries[1].Persona != "doc" {
		t.Fatalf("expected tail of the journal, got %s then %s", entries[0].Persona, entries[1].Persona)
	}
	if entries[0].ID == "" || entries[0].Timestamp.IsZero() {
		t.Fatal("expected id and timestamp to be filled on append")
	}
}

func TestRecentMissingFileIsEmpty(t *testing.T) {
	j, _ := newTestJournal(t)

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestRecentSkipsCorruptLines(t *testing.T) {
	j, path := newTestJournal(t)

	if err := j.Append(memorymodel.Entry{ThreadID: "t", Persona: "mia", Summary: "ok"}); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open err: %v", err)
	}
	if _, err := f.WriteString("{not valid json\n"); err != nil {
		t.Fatalf("write err: %v", err)
	}
	f.Close()

	if err := j.Append(memorymodel.Entry{ThreadID: "t", Persona: "doc", Summary: "also ok"}); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected corrupt line skipped, got %d entries", len(entries))
	}
}
