package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"deckgen/internal/domain"
)

type outlinePayload struct {
	Slides []slidePayload `json:"slides"`
}

type slidePayload struct {
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speaker_notes"`
}

// parseOutline decodes a provider response into per-slide contents. Any
// shape problem is ErrContentUnparseable: the model answered, it just
// answered badly, so retrying another provider would not help.
func parseOutline(raw string) ([]domain.SlideContent, error) {
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrContentUnparseable)
	}
	var payload outlinePayload
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContentUnparseable, err)
	}
	if len(payload.Slides) == 0 {
		return nil, fmt.Errorf("%w: no slides in response", domain.ErrContentUnparseable)
	}
	out := make([]domain.SlideContent, 0, len(payload.Slides))
	for i, s := range payload.Slides {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}
		out = append(out, domain.SlideContent{
			Title:        title,
			Content:      s.Content,
			SpeakerNotes: strings.TrimSpace(s.SpeakerNotes),
		})
	}
	return out, nil
}

// parseSlide decodes a single updated slide from an edit response.
func parseSlide(raw string) (domain.SlideContent, error) {
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return domain.SlideContent{}, fmt.Errorf("%w: empty response", domain.ErrContentUnparseable)
	}
	var payload slidePayload
	if err := json.Unmarshal([]byte(fragment), &payload); err != nil {
		return domain.SlideContent{}, fmt.Errorf("%w: %v", domain.ErrContentUnparseable, err)
	}
	if strings.TrimSpace(payload.Title) == "" && len(payload.Content) == 0 {
		return domain.SlideContent{}, fmt.Errorf("%w: empty slide", domain.ErrContentUnparseable)
	}
	return domain.SlideContent{
		Title:        strings.TrimSpace(payload.Title),
		Content:      payload.Content,
		SpeakerNotes: strings.TrimSpace(payload.SpeakerNotes),
	}, nil
}

// extractJSONFragment strips markdown fences and leading/trailing prose,
// leaving the outermost JSON value. Models wrap JSON in fences often
// enough that decoding the raw text directly is not an option.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
