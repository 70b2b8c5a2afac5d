package pipeline

import (
	"errors"
	"testing"

	"github.com/studyforge/distill/internal/providers"
)

func TestParseDeck(t *testing.T) {
	content := `{"title": "Caching", "cards": [
		{"front": "What is a cache hit?", "back": "A lookup served from the cache."},
		{"front": "What is TTL?", "back": "Time to live."}
	]}`

	deck, err := ParseDeck("mock", content)
	if err != nil {
		t.Fatalf("ParseDeck() error = %v", err)
	}
	if deck.Title != "Caching" {
		t.Errorf("Title = %q", deck.Title)
	}
	if len(deck.Cards) != 2 {
		t.Fatalf("len(Cards) = %d, want 2", len(deck.Cards))
	}
	if deck.Cards[0].Front != "What is a cache hit?" {
		t.Errorf("Cards[0].Front = %q", deck.Cards[0].Front)
	}
	if deck.Degraded {
		t.Error("Degraded = true for a valid deck")
	}
}

func TestParseDeckStripsCodeFence(t *testing.T) {
	content := "```json\n{\"title\": \"T\", \"cards\": [{\"front\": \"q\", \"back\": \"a\"}]}\n```"

	deck, err := ParseDeck("mock", content)
	if err != nil {
		t.Fatalf("ParseDeck() error = %v", err)
	}
	if deck.Title != "T" || len(deck.Cards) != 1 {
		t.Errorf("deck = %+v", deck)
	}
}

func TestParseDeckMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Here are your flashcards:\n1. What is..."},
		{"missing cards", `{"title": "T"}`},
		{"empty cards", `{"title": "T", "cards": []}`},
		{"empty title", `{"title": "", "cards": [{"front": "q", "back": "a"}]}`},
		{"card missing back", `{"title": "T", "cards": [{"front": "q"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeck("mock", tt.content)
			var malformed *providers.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want MalformedResponseError", err)
			}
			if malformed.Provider != "mock" {
				t.Errorf("Provider = %q", malformed.Provider)
			}
		})
	}
}

func TestPlaceholderDeck(t *testing.T) {
	deck := placeholderDeck("doc1", "raw model output")

	if !deck.Degraded {
		t.Error("Degraded = false")
	}
	if deck.Title != "doc1" {
		t.Errorf("Title = %q", deck.Title)
	}
	if len(deck.Cards) != 1 {
		t.Fatalf("len(Cards) = %d, want 1", len(deck.Cards))
	}
	if deck.Cards[0].Back != "raw model output" {
		t.Error("raw output should be preserved on the fallback card")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
