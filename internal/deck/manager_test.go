package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"deckgen/internal/adapter/repo"
	"deckgen/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(repo.NewMemorySessionRepository(), ManagerOptions{Logger: zerolog.Nop()})
}

func seedSession(t *testing.T, m *Manager) *domain.Session {
	t.Helper()
	session, err := m.Create(context.Background(), "user-1", domain.TemplateProfessional, domain.ToneProfessional)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return session
}

func seedSlides(t *testing.T, m *Manager, sessionID string, n int) {
	t.Helper()
	contents := make([]domain.SlideContent, n)
	for i := range contents {
		contents[i] = domain.SlideContent{
			Title:   fmt.Sprintf("Slide %d", i+1),
			Content: []string{"point one", "point two"},
		}
	}
	if _, err := m.CreateSlides(context.Background(), sessionID, "Test Topic", "memory", contents); err != nil {
		t.Fatalf("CreateSlides() error = %v", err)
	}
}

func TestCreateSlidesInitialVersions(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 3)

	slides, err := m.Read(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("len(slides) = %d, want 3", len(slides))
	}
	for i, slide := range slides {
		if slide.Number != i+1 {
			t.Fatalf("slide %d has number %d", i, slide.Number)
		}
		if len(slide.Versions) != 1 || slide.CurrentVersion != 0 {
			t.Fatalf("slide %d versions/current = %d/%d, want 1/0", slide.Number, len(slide.Versions), slide.CurrentVersion)
		}
	}

	got, err := m.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Topic != "Test Topic" || got.ContextMemory != "memory" {
		t.Fatalf("topic/memory = %q/%q", got.Topic, got.ContextMemory)
	}
}

func TestCreateSlidesUnknownSession(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateSlides(context.Background(), "missing", "t", "", []domain.SlideContent{{Title: "x"}})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestApplyEditAppendsVersions(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 3)
	ctx := context.Background()

	const edits = 4
	for i := 0; i < edits; i++ {
		v, err := m.ApplyEdit(ctx, session.ID, 2, domain.SlideContent{
			Title:   fmt.Sprintf("Edited %d", i+1),
			Content: []string{"new point"},
		}, "make it better")
		if err != nil {
			t.Fatalf("ApplyEdit() #%d error = %v", i+1, err)
		}
		if v.Version != i+1 {
			t.Fatalf("version = %d, want %d", v.Version, i+1)
		}
	}

	slide, err := m.SlideHistory(ctx, session.ID, 2)
	if err != nil {
		t.Fatalf("SlideHistory() error = %v", err)
	}
	if len(slide.Versions) != edits+1 {
		t.Fatalf("len(versions) = %d, want %d", len(slide.Versions), edits+1)
	}
	if slide.CurrentVersion != edits {
		t.Fatalf("current = %d, want %d", slide.CurrentVersion, edits)
	}
	if slide.Versions[0].Title != "Slide 2" {
		t.Fatalf("initial version mutated: %q", slide.Versions[0].Title)
	}
}

func TestApplyEditUnknownSlide(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 2)

	_, err := m.ApplyEdit(context.Background(), session.ID, 9, domain.SlideContent{Title: "x"}, "i")
	if !errors.Is(err, domain.ErrSlideNotFound) {
		t.Fatalf("error = %v, want ErrSlideNotFound", err)
	}
}

func TestRollbackMovesPointerOnly(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := m.ApplyEdit(ctx, session.ID, 2, domain.SlideContent{Title: fmt.Sprintf("Edited %d", i+1)}, "edit"); err != nil {
			t.Fatalf("ApplyEdit() error = %v", err)
		}
	}

	v, err := m.Rollback(ctx, session.ID, 2, 0)
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if v.Title != "Slide 2" {
		t.Fatalf("rolled back title = %q, want Slide 2", v.Title)
	}

	slide, _ := m.SlideHistory(ctx, session.ID, 2)
	if slide.CurrentVersion != 0 {
		t.Fatalf("current = %d, want 0", slide.CurrentVersion)
	}
	if len(slide.Versions) != 3 {
		t.Fatalf("rollback must not drop versions, got %d", len(slide.Versions))
	}
	if slide.Current().Title != "Slide 2" {
		t.Fatalf("Current() = %q", slide.Current().Title)
	}
}

func TestRollbackInvalidIndex(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 1)

	for _, idx := range []int{-1, 1, 5} {
		if _, err := m.Rollback(context.Background(), session.ID, 1, idx); !errors.Is(err, domain.ErrInvalidVersionIndex) {
			t.Fatalf("Rollback(%d) error = %v, want ErrInvalidVersionIndex", idx, err)
		}
	}
}

func TestConcurrentEditsAllRecorded(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 1)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.ApplyEdit(ctx, session.ID, 1, domain.SlideContent{Title: fmt.Sprintf("v%d", i)}, "edit")
			if err != nil {
				t.Errorf("ApplyEdit() error = %v", err)
			}
		}()
	}
	wg.Wait()

	slide, err := m.SlideHistory(ctx, session.ID, 1)
	if err != nil {
		t.Fatalf("SlideHistory() error = %v", err)
	}
	if len(slide.Versions) != workers+1 {
		t.Fatalf("len(versions) = %d, want %d (no edit may be lost)", len(slide.Versions), workers+1)
	}
	if slide.CurrentVersion != workers {
		t.Fatalf("current = %d, want %d", slide.CurrentVersion, workers)
	}
}

func TestDeleteSession(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)

	if err := m.Delete(context.Background(), session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(context.Background(), session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Get() after delete = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete(context.Background(), session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("second Delete() = %v, want ErrSessionNotFound", err)
	}
}

func TestChatHistoryCapped(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	ctx := context.Background()

	for i := 0; i < maxChatMessages+10; i++ {
		if err := m.AddChatMessage(ctx, session.ID, "user", fmt.Sprintf("msg %d", i), 0); err != nil {
			t.Fatalf("AddChatMessage() error = %v", err)
		}
	}

	got, _ := m.Get(ctx, session.ID)
	if len(got.ChatHistory) != maxChatMessages {
		t.Fatalf("len(chat) = %d, want %d", len(got.ChatHistory), maxChatMessages)
	}
	if got.ChatHistory[len(got.ChatHistory)-1].Content != fmt.Sprintf("msg %d", maxChatMessages+9) {
		t.Fatalf("last message = %q", got.ChatHistory[len(got.ChatHistory)-1].Content)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	m := newTestManager(t)
	session := seedSession(t, m)
	seedSlides(t, m, session.ID, 1)
	ctx := context.Background()

	snap, _ := m.Get(ctx, session.ID)
	snap.Slides[0].Versions[0].Title = "tampered"
	snap.Slides[0].Versions[0].Content[0] = "tampered"

	fresh, _ := m.Get(ctx, session.ID)
	if fresh.Slides[0].Versions[0].Title != "Slide 1" {
		t.Fatal("mutating a snapshot leaked into the store")
	}
	if fresh.Slides[0].Versions[0].Content[0] != "point one" {
		t.Fatal("mutating snapshot content leaked into the store")
	}
}
