package domain

import "time"

// TemplateType enumerates visual deck templates.
type TemplateType string

const (
	TemplateProfessional TemplateType = "professional"
	TemplateStartup      TemplateType = "startup"
	TemplateAcademic     TemplateType = "academic"
	TemplateMinimal      TemplateType = "minimal"
	TemplateDarkModern   TemplateType = "dark_modern"
)

// Valid reports whether the template is one of the known values.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateProfessional, TemplateStartup, TemplateAcademic, TemplateMinimal, TemplateDarkModern:
		return true
	}
	return false
}

// ToneType enumerates the writing tones a deck can be generated with.
type ToneType string

const (
	ToneProfessional ToneType = "professional"
	ToneCasual       ToneType = "casual"
	ToneTechnical    ToneType = "technical"
	ToneCreative     ToneType = "creative"
	ToneAcademic     ToneType = "academic"
)

// Valid reports whether the tone is one of the known values.
func (t ToneType) Valid() bool {
	switch t {
	case ToneProfessional, ToneCasual, ToneTechnical, ToneCreative, ToneAcademic:
		return true
	}
	return false
}

// SlideVersion is one immutable snapshot of a slide's content. Edits append
// new versions, they never mutate existing ones.
type SlideVersion struct {
	Version      int       `json:"version"`
	Title        string    `json:"title"`
	Content      []string  `json:"content"`
	SpeakerNotes string    `json:"speaker_notes,omitempty"`
	Instruction  string    `json:"instruction,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Slide holds the full version history of a single slide. CurrentVersion is
// the only mutable pointer; it always satisfies
// 0 <= CurrentVersion < len(Versions).
type Slide struct {
	Number         int            `json:"slide_number"`
	Versions       []SlideVersion `json:"versions"`
	CurrentVersion int            `json:"current_version"`
}

// Current returns the version the CurrentVersion pointer addresses.
func (s *Slide) Current() SlideVersion {
	return s.Versions[s.CurrentVersion]
}

// ChatMessage records one turn of the session's instruction history.
type ChatMessage struct {
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	RelatedSlide int       `json:"related_slide,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Session is a user's in-progress presentation: settings, ordered slides
// and the conversation that shaped them.
type Session struct {
	ID            string        `json:"session_id"`
	UserID        string        `json:"user_id"`
	Topic         string        `json:"topic,omitempty"`
	Template      TemplateType  `json:"template"`
	Tone          ToneType      `json:"tone"`
	Slides        []Slide       `json:"slides"`
	ChatHistory   []ChatMessage `json:"chat_history"`
	ContextMemory string        `json:"context_memory,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"last_updated"`
}

// SlideContent is the parsed shape of a generated slide before it is stored.
type SlideContent struct {
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
}
