package summarize

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

// SystemPrompt returns the system prompt for section summarization.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for one section.
func UserPrompt(title, text string) string {
	var buf bytes.Buffer
	data := struct{ Title, Text string }{Title: title, Text: text}
	if err := userTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return userPromptTmpl
	}
	return buf.String()
}
