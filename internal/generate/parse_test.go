package generate

import (
	"errors"
	"testing"

	"deckgen/internal/domain"
)

const sampleOutline = `{
  "slides": [
    {"title": "Intro", "content": ["a", "b"], "speaker_notes": "notes"},
    {"title": "Body", "content": ["c"]},
    {"title": "", "content": ["d"]}
  ]
}`

func TestParseOutline(t *testing.T) {
	slides, err := parseOutline(sampleOutline)
	if err != nil {
		t.Fatalf("parseOutline() error = %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("len(slides) = %d, want 3", len(slides))
	}
	if slides[0].Title != "Intro" || slides[0].SpeakerNotes != "notes" {
		t.Fatalf("slide 0 = %+v", slides[0])
	}
	// Missing titles fall back to a positional one.
	if slides[2].Title != "Slide 3" {
		t.Fatalf("slide 3 title = %q, want Slide 3", slides[2].Title)
	}
}

func TestParseOutlineCodeFence(t *testing.T) {
	fenced := "```json\n" + sampleOutline + "\n```"
	slides, err := parseOutline(fenced)
	if err != nil {
		t.Fatalf("parseOutline() error = %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("len(slides) = %d, want 3", len(slides))
	}
}

func TestParseOutlineSurroundingProse(t *testing.T) {
	noisy := "Sure! Here is your outline:\n" + sampleOutline + "\nLet me know if you need changes."
	if _, err := parseOutline(noisy); err != nil {
		t.Fatalf("parseOutline() error = %v", err)
	}
}

func TestParseOutlineUnparseable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I cannot help with that."},
		{"broken json", `{"slides": [`},
		{"no slides", `{"slides": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOutline(tc.raw)
			if !errors.Is(err, domain.ErrContentUnparseable) {
				t.Fatalf("error = %v, want ErrContentUnparseable", err)
			}
		})
	}
}

func TestParseSlide(t *testing.T) {
	got, err := parseSlide("```json\n{\"title\": \"New\", \"content\": [\"x\"], \"speaker_notes\": \"n\"}\n```")
	if err != nil {
		t.Fatalf("parseSlide() error = %v", err)
	}
	if got.Title != "New" || len(got.Content) != 1 || got.SpeakerNotes != "n" {
		t.Fatalf("parseSlide() = %+v", got)
	}
}

func TestParseSlideUnparseable(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"title": "", "content": []}`} {
		if _, err := parseSlide(raw); !errors.Is(err, domain.ErrContentUnparseable) {
			t.Fatalf("parseSlide(%q) = %v, want ErrContentUnparseable", raw, err)
		}
	}
}

func TestExtractJSONFragment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n[1,2]\n```", `[1,2]`},
		{"prose wrapped", `answer: {"a":1} done`, `{"a":1}`},
		{"blank", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONFragment(tc.raw); got != tc.want {
				t.Fatalf("extractJSONFragment() = %q, want %q", got, tc.want)
			}
		})
	}
}
