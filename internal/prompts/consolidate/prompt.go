package consolidate

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SummaryInput is one per-section summary fed into consolidation.
type SummaryInput struct {
	SectionID string
	Title     string
	Summary   string
}

// SystemPrompt returns the system prompt for summary consolidation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt from all section summaries of an item.
func UserPrompt(itemID string, summaries []SummaryInput) string {
	var buf bytes.Buffer
	data := struct {
		ItemID    string
		Summaries []SummaryInput
	}{ItemID: itemID, Summaries: summaries}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
