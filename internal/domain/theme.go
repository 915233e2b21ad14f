package domain

// Theme is the color palette a template renders with. Values are hex
// strings without the leading '#'.
type Theme struct {
	Background string `json:"background"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// TemplateInfo describes one selectable template for listing endpoints.
type TemplateInfo struct {
	ID    TemplateType `json:"id"`
	Name  string       `json:"name"`
	Theme Theme        `json:"theme"`
}

var themes = map[TemplateType]Theme{
	TemplateProfessional: {Background: "1E1E2E", Title: "FFFFFF", Text: "E2E8F0", Accent: "4F46E5"},
	TemplateStartup:      {Background: "F8FAFC", Title: "0F172A", Text: "334155", Accent: "06B6D4"},
	TemplateAcademic:     {Background: "FFFFFF", Title: "111827", Text: "374151", Accent: "2563EB"},
	TemplateMinimal:      {Background: "FFFFFF", Title: "1F2937", Text: "4B5563", Accent: "9CA3AF"},
	TemplateDarkModern:   {Background: "0F172A", Title: "F8FAFC", Text: "CBD5E1", Accent: "22D3EE"},
}

var templateNames = map[TemplateType]string{
	TemplateProfessional: "Professional",
	TemplateStartup:      "Startup Pitch",
	TemplateAcademic:     "Academic",
	TemplateMinimal:      "Minimal",
	TemplateDarkModern:   "Dark Modern",
}

// ThemeFor returns the palette for a template, falling back to the
// professional theme for unknown values.
func ThemeFor(t TemplateType) Theme {
	if theme, ok := themes[t]; ok {
		return theme
	}
	return themes[TemplateProfessional]
}

// Templates lists every selectable template in a stable order.
func Templates() []TemplateInfo {
	order := []TemplateType{
		TemplateProfessional,
		TemplateStartup,
		TemplateAcademic,
		TemplateMinimal,
		TemplateDarkModern,
	}
	out := make([]TemplateInfo, 0, len(order))
	for _, t := range order {
		out = append(out, TemplateInfo{ID: t, Name: templateNames[t], Theme: themes[t]})
	}
	return out
}
