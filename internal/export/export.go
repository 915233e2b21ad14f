// Package export renders a session into a portable deck document and
// stages it for download.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deckgen/internal/domain"
	"deckgen/internal/storage"
)

// Document is the downloadable representation of a deck. Only the current
// version of each slide is included; edit history stays server side.
type Document struct {
	SessionID   string              `json:"session_id"`
	Topic       string              `json:"topic"`
	Template    domain.TemplateType `json:"template"`
	Theme       domain.Theme        `json:"theme"`
	Tone        domain.ToneType     `json:"tone"`
	GeneratedAt time.Time           `json:"generated_at"`
	Slides      []DocumentSlide     `json:"slides"`
}

// DocumentSlide is one rendered slide in a Document.
type DocumentSlide struct {
	Number       int      `json:"slide_number"`
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
}

// Exporter builds Documents and writes them to the file store.
type Exporter struct {
	store *storage.FileStore
	now   func() time.Time
}

func NewExporter(store *storage.FileStore, clock func() time.Time) *Exporter {
	if clock == nil {
		clock = time.Now
	}
	return &Exporter{store: store, now: clock}
}

// Render builds the Document for a session. Sessions without slides
// cannot be exported.
func (e *Exporter) Render(session *domain.Session) (*Document, error) {
	if len(session.Slides) == 0 {
		return nil, domain.ErrNoSlidesGenerated
	}
	doc := &Document{
		SessionID:   session.ID,
		Topic:       session.Topic,
		Template:    session.Template,
		Theme:       domain.ThemeFor(session.Template),
		Tone:        session.Tone,
		GeneratedAt: e.now(),
		Slides:      make([]DocumentSlide, 0, len(session.Slides)),
	}
	for _, slide := range session.Slides {
		current := slide.Current()
		doc.Slides = append(doc.Slides, DocumentSlide{
			Number:       slide.Number,
			Title:        current.Title,
			Content:      current.Content,
			SpeakerNotes: current.SpeakerNotes,
		})
	}
	return doc, nil
}

// Export renders the session, writes the document under decks/, and
// returns the storage key together with the serialized bytes.
func (e *Exporter) Export(ctx context.Context, session *domain.Session) (string, []byte, error) {
	doc, err := e.Render(session)
	if err != nil {
		return "", nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("export: encode document: %w", err)
	}
	key, err := e.store.Write(ctx, fmt.Sprintf("decks/%s.json", session.ID), data)
	if err != nil {
		return "", nil, err
	}
	return key, data, nil
}
