package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deckgen/internal/domain"
	"deckgen/internal/storage"
)

func testSession() *domain.Session {
	return &domain.Session{
		ID:       "sess-1",
		UserID:   "user-1",
		Topic:    "Edge computing",
		Template: domain.TemplateDarkModern,
		Tone:     domain.ToneTechnical,
		Slides: []domain.Slide{
			{
				Number: 1,
				Versions: []domain.SlideVersion{
					{Version: 0, Title: "Old", Content: []string{"a"}},
					{Version: 1, Title: "Intro", Content: []string{"b"}, SpeakerNotes: "n"},
				},
				CurrentVersion: 1,
			},
			{
				Number:         2,
				Versions:       []domain.SlideVersion{{Version: 0, Title: "Body", Content: []string{"c"}}},
				CurrentVersion: 0,
			},
		},
	}
}

func newExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewExporter(store, func() time.Time { return fixed }), dir
}

func TestExportWritesCurrentVersionsOnly(t *testing.T) {
	exporter, dir := newExporter(t)

	key, data, err := exporter.Export(context.Background(), testSession())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if key != "decks/sess-1.json" {
		t.Fatalf("key = %q", key)
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, "decks", "sess-1.json"))
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if string(onDisk) != string(data) {
		t.Fatal("returned bytes differ from stored bytes")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(doc.Slides))
	}
	// Slide 1 has two versions; only the current one is exported.
	if doc.Slides[0].Title != "Intro" {
		t.Fatalf("slide 1 title = %q, want the current version", doc.Slides[0].Title)
	}
	if doc.Theme != domain.ThemeFor(domain.TemplateDarkModern) {
		t.Fatalf("theme = %+v", doc.Theme)
	}
}

func TestExportEmptyDeck(t *testing.T) {
	exporter, _ := newExporter(t)
	session := testSession()
	session.Slides = nil

	_, _, err := exporter.Export(context.Background(), session)
	if !errors.Is(err, domain.ErrNoSlidesGenerated) {
		t.Fatalf("error = %v, want ErrNoSlidesGenerated", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.json", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
