package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/studyforge/distill/internal/providers"
)

// Deck is the materialization stage's structured output: a flashcard
// deck generated from an item's consolidated notes.
type Deck struct {
	Title string `json:"title"`
	Cards []Card `json:"cards"`

	// Degraded is set when the provider's output failed validation and
	// the deck was downgraded to a single card carrying the raw text.
	Degraded bool `json:"degraded,omitempty"`
}

// Card is one front/back flashcard.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

const deckSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "cards"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "cards": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["front", "back"],
        "properties": {
          "front": {"type": "string", "minLength": 1},
          "back": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var deckSchema = jsonschema.MustCompileString("deck.schema.json", deckSchemaJSON)

// ParseDeck parses and validates a provider's deck output. Validation
// failures are classified as malformed responses so the retry policy
// never burns budget on them.
func ParseDeck(providerName, content string) (*Deck, error) {
	raw := stripCodeFences(content)

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, &providers.MalformedResponseError{
			Provider: providerName,
			Message:  fmt.Sprintf("deck output is not valid JSON: %v", err),
		}
	}

	if err := deckSchema.Validate(decoded); err != nil {
		return nil, &providers.MalformedResponseError{
			Provider: providerName,
			Message:  fmt.Sprintf("deck output failed schema validation: %v", err),
		}
	}

	var deck Deck
	if err := json.Unmarshal([]byte(raw), &deck); err != nil {
		return nil, &providers.MalformedResponseError{
			Provider: providerName,
			Message:  fmt.Sprintf("deck output did not decode: %v", err),
		}
	}
	return &deck, nil
}

// placeholderDeck builds the degraded fallback deck used when the
// provider's output cannot be parsed. The raw text rides along on a
// single card so nothing paid for is discarded.
func placeholderDeck(itemID, content string) *Deck {
	return &Deck{
		Title:    itemID,
		Degraded: true,
		Cards: []Card{
			{Front: "Review the generated notes for " + itemID, Back: content},
		},
	}
}

// stripCodeFences removes a surrounding markdown code fence if present.
// Models occasionally wrap JSON output despite instructions.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
