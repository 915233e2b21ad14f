package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"deckgen/internal/domain"
)

const outlineSystemPrompt = `You are an expert presentation designer. Create clear, engaging, and well-structured presentation outlines.

Your task is to generate a presentation outline with the specified number of slides.

Each slide should have:
- A compelling title (max 10 words)
- 4-6 bullet points of substantive content (each bullet should be informative, 10-20 words)
- Optional speaker notes with additional context

Create comprehensive, detailed slides that provide real value. Avoid generic or vague bullet points.

Respond ONLY with valid JSON in this exact format:
{
    "slides": [
        {
            "title": "Slide Title",
            "content": ["Detailed bullet point 1", "Detailed bullet point 2", "Detailed bullet point 3"],
            "speaker_notes": "Optional notes for the presenter"
        }
    ]
}

Make the presentation flow logically from introduction to conclusion.`

var toneInstructions = map[domain.ToneType]string{
	domain.ToneProfessional: "Use formal, business-appropriate language. Focus on key metrics and outcomes.",
	domain.ToneCasual:       "Use conversational, friendly language. Make it engaging and approachable.",
	domain.ToneTechnical:    "Use precise technical terminology. Include detailed specifications and technical concepts.",
	domain.ToneCreative:     "Use dynamic, imaginative language. Include creative metaphors and engaging visual descriptions.",
	domain.ToneAcademic:     "Use scholarly language with proper citation format. Include theoretical frameworks and methodology.",
}

func toneInstruction(tone domain.ToneType) string {
	if s, ok := toneInstructions[tone]; ok {
		return s
	}
	return toneInstructions[domain.ToneProfessional]
}

func buildOutlinePrompt(topic string, numSlides int, tone domain.ToneType, context, extra string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Create a %d-slide presentation about: %s", numSlides, topic)
	fmt.Fprintf(sb, "\n\nTone: %s", toneInstruction(tone))
	if context != "" {
		fmt.Fprintf(sb, "\n\nContext: %s", context)
	}
	if extra != "" {
		fmt.Fprintf(sb, "\n\nAdditional instructions: %s", extra)
	}
	return sb.String()
}

func buildEditSystemPrompt(current domain.SlideVersion, topic string, tone domain.ToneType) string {
	content, _ := json.Marshal(current.Content)
	notes := current.SpeakerNotes
	if notes == "" {
		notes = "None"
	}
	sb := &strings.Builder{}
	sb.WriteString("You are an expert presentation designer. Modify the given slide based on the user's instruction.\n\n")
	fmt.Fprintf(sb, "Current slide:\n- Title: %s\n- Content: %s\n- Speaker Notes: %s\n\n", current.Title, content, notes)
	fmt.Fprintf(sb, "Presentation topic: %s\nTone: %s\n\n", topic, toneInstruction(tone))
	sb.WriteString("Respond ONLY with valid JSON:\n")
	sb.WriteString(`{
    "title": "Updated slide title",
    "content": ["Updated bullet 1", "Updated bullet 2", "Updated bullet 3"],
    "speaker_notes": "Updated speaker notes"
}`)
	return sb.String()
}

func buildEditPrompt(instruction, context, otherSlides string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Instruction: %s", instruction)
	if context != "" {
		fmt.Fprintf(sb, "\nContext: %s", context)
	}
	if otherSlides != "" {
		fmt.Fprintf(sb, "\nOther slides in presentation: %s", otherSlides)
	}
	return sb.String()
}

// otherSlidesSummary lists the titles of every slide except the one being
// edited, so the model keeps the deck coherent.
func otherSlidesSummary(slides []domain.Slide, excluding int) string {
	var lines []string
	for _, s := range slides {
		if s.Number == excluding {
			continue
		}
		lines = append(lines, fmt.Sprintf("Slide %d: %s", s.Number, s.Current().Title))
	}
	return strings.Join(lines, "\n")
}
