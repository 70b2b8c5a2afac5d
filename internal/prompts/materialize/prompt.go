package materialize

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

// SystemPrompt returns the system prompt for deck materialization.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt from an item's consolidated notes.
func UserPrompt(itemID, notes string) string {
	var buf bytes.Buffer
	data := struct{ ItemID, Notes string }{ItemID: itemID, Notes: notes}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
