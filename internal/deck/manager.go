// Package deck owns presentation sessions: ordered slides, their
// append-only version histories and the chat log that shaped them.
package deck

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deckgen/internal/domain"
)

// maxChatMessages bounds the per-session conversation history.
const maxChatMessages = 50

// Manager is the slide version store. Sessions are cached in memory and
// written through to the repository on every mutation. All writes to one
// session are serialized by a per-session lock; different sessions never
// contend.
type Manager struct {
	repo   domain.SessionRepository
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

type ManagerOptions struct {
	Clock  func() time.Time
	Logger zerolog.Logger
}

func NewManager(repo domain.SessionRepository, opts ManagerOptions) *Manager {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{
		repo:    repo,
		now:     now,
		logger:  opts.Logger,
		entries: make(map[string]*sessionEntry),
	}
}

// Create starts a new session for the user with the given settings.
func (m *Manager) Create(ctx context.Context, userID string, template domain.TemplateType, tone domain.ToneType) (*domain.Session, error) {
	now := m.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Template:  template,
		Tone:      tone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.repo.Put(ctx, session); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[session.ID] = &sessionEntry{session: session}
	m.mu.Unlock()

	m.logger.Info().Str("session_id", session.ID).Str("user_id", userID).Msg("deck: session created")
	return copySession(session), nil
}

// Get returns a snapshot of the session, or ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	e, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copySession(e.session), nil
}

// Delete removes the session from the cache and the repository.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if _, err := m.load(ctx, sessionID); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return m.repo.Delete(ctx, sessionID)
}

// SetTemplate switches the session's visual template.
func (m *Manager) SetTemplate(ctx context.Context, sessionID string, template domain.TemplateType) error {
	return m.mutate(ctx, sessionID, func(s *domain.Session) error {
		s.Template = template
		return nil
	})
}

// CreateSlides initializes slides 1..N from the generated contents, each
// with a single initial version, replacing whatever slides existed. Topic
// and context memory are recorded alongside.
func (m *Manager) CreateSlides(ctx context.Context, sessionID, topic, memory string, contents []domain.SlideContent) ([]domain.Slide, error) {
	var out []domain.Slide
	err := m.mutate(ctx, sessionID, func(s *domain.Session) error {
		now := m.now()
		slides := make([]domain.Slide, 0, len(contents))
		for i, c := range contents {
			slides = append(slides, domain.Slide{
				Number: i + 1,
				Versions: []domain.SlideVersion{{
					Version:      0,
					Title:        c.Title,
					Content:      c.Content,
					SpeakerNotes: c.SpeakerNotes,
					Instruction:  "Initial generation",
					CreatedAt:    now,
				}},
				CurrentVersion: 0,
			})
		}
		s.Topic = topic
		s.ContextMemory = memory
		s.Slides = slides
		out = copySlides(slides)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyEdit appends a new version to the addressed slide and moves the
// current pointer to it. History is never truncated.
func (m *Manager) ApplyEdit(ctx context.Context, sessionID string, slideNumber int, c domain.SlideContent, instruction string) (domain.SlideVersion, error) {
	var out domain.SlideVersion
	err := m.mutate(ctx, sessionID, func(s *domain.Session) error {
		slide := findSlide(s, slideNumber)
		if slide == nil {
			return domain.ErrSlideNotFound
		}
		version := domain.SlideVersion{
			Version:      len(slide.Versions),
			Title:        c.Title,
			Content:      c.Content,
			SpeakerNotes: c.SpeakerNotes,
			Instruction:  instruction,
			CreatedAt:    m.now(),
		}
		slide.Versions = append(slide.Versions, version)
		slide.CurrentVersion = len(slide.Versions) - 1
		out = version
		return nil
	})
	return out, err
}

// Rollback points the slide at an existing prior version without deleting
// anything.
func (m *Manager) Rollback(ctx context.Context, sessionID string, slideNumber, versionIndex int) (domain.SlideVersion, error) {
	var out domain.SlideVersion
	err := m.mutate(ctx, sessionID, func(s *domain.Session) error {
		slide := findSlide(s, slideNumber)
		if slide == nil {
			return domain.ErrSlideNotFound
		}
		if versionIndex < 0 || versionIndex >= len(slide.Versions) {
			return domain.ErrInvalidVersionIndex
		}
		slide.CurrentVersion = versionIndex
		out = slide.Versions[versionIndex]
		return nil
	})
	return out, err
}

// Read returns every slide with its full history, ordered by slide number.
func (m *Manager) Read(ctx context.Context, sessionID string) ([]domain.Slide, error) {
	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Slides, nil
}

// SlideHistory returns one slide with its full version history.
func (m *Manager) SlideHistory(ctx context.Context, sessionID string, slideNumber int) (domain.Slide, error) {
	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.Slide{}, err
	}
	for _, slide := range session.Slides {
		if slide.Number == slideNumber {
			return slide, nil
		}
	}
	return domain.Slide{}, domain.ErrSlideNotFound
}

// AddChatMessage appends to the session's conversation log, keeping at
// most maxChatMessages entries.
func (m *Manager) AddChatMessage(ctx context.Context, sessionID, role, content string, relatedSlide int) error {
	return m.mutate(ctx, sessionID, func(s *domain.Session) error {
		s.ChatHistory = append(s.ChatHistory, domain.ChatMessage{
			Role:         role,
			Content:      content,
			RelatedSlide: relatedSlide,
			Timestamp:    m.now(),
		})
		if len(s.ChatHistory) > maxChatMessages {
			s.ChatHistory = s.ChatHistory[len(s.ChatHistory)-maxChatMessages:]
		}
		return nil
	})
}

// mutate applies fn to the session under its lock and persists the result.
// The mutation is applied to a copy first so a failed Put leaves the
// cached state untouched.
func (m *Manager) mutate(ctx context.Context, sessionID string, fn func(*domain.Session) error) error {
	e, err := m.load(ctx, sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := copySession(e.session)
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = m.now()
	if err := m.repo.Put(ctx, next); err != nil {
		return err
	}
	e.session = next
	return nil
}

func (m *Manager) load(ctx context.Context, sessionID string) (*sessionEntry, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}

	session, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[sessionID]; ok {
		return existing, nil
	}
	e = &sessionEntry{session: session}
	m.entries[sessionID] = e
	return e, nil
}

func findSlide(s *domain.Session, number int) *domain.Slide {
	for i := range s.Slides {
		if s.Slides[i].Number == number {
			return &s.Slides[i]
		}
	}
	return nil
}

func copySession(s *domain.Session) *domain.Session {
	out := *s
	out.Slides = copySlides(s.Slides)
	out.ChatHistory = append([]domain.ChatMessage(nil), s.ChatHistory...)
	return &out
}

func copySlides(slides []domain.Slide) []domain.Slide {
	out := make([]domain.Slide, len(slides))
	for i, slide := range slides {
		out[i] = slide
		out[i].Versions = make([]domain.SlideVersion, len(slide.Versions))
		for j, v := range slide.Versions {
			out[i].Versions[j] = v
			out[i].Versions[j].Content = append([]string(nil), v.Content...)
		}
	}
	return out
}
