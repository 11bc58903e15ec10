package core

import (
	"encoding/json"
	"time"

	"flashcards/pkg/store"

	"github.com/pkg/errors"
)

// CardType is the discriminant attached to each card in a listing.
type CardType string

const (
	VerbType     CardType = "verb"
	SentenceType CardType = "sentence"
)

// ParseCardType maps the raw "type" query value to a card kind. An absent
// value means verb; any value other than "verb" means sentence.
func ParseCardType(raw string, present bool) CardType {
	if !present || raw == string(VerbType) {
		return VerbType
	}
	return SentenceType
}

// Card is one element of the unified listing. Exactly one of Verb and
// Sentence is set, matching Type.
type Card struct {
	Type     CardType
	Verb     *store.VerbCard
	Sentence *store.SentenceCard

	notesHTML string
}

type verbCardJSON struct {
	ID             int64     `json:"id"`
	Verb           string    `json:"verb"`
	Pronoun        string    `json:"pronoun"`
	Tense          string    `json:"tense"`
	Mood           string    `json:"mood"`
	ConjugatedForm string    `json:"conjugated_form"`
	CreatedAt      time.Time `json:"created_at"`
	CardType       CardType  `json:"card_type"`
}

type sentenceCardJSON struct {
	ID                 int64     `json:"id"`
	SpanishSentence    string    `json:"spanish_sentence"`
	EnglishTranslation string    `json:"english_translation"`
	GrammarNotes       string    `json:"grammar_notes"`
	GrammarNotesHTML   string    `json:"grammar_notes_html"`
	CreatedAt          time.Time `json:"created_at"`
	CardType           CardType  `json:"card_type"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	switch {
	case c.Type == VerbType && c.Verb != nil:
		v := c.Verb
		return json.Marshal(verbCardJSON{
			ID:             v.ID,
			Verb:           v.Verb,
			Pronoun:        v.Pronoun,
			Tense:          v.Tense,
			Mood:           v.Mood,
			ConjugatedForm: v.ConjugatedForm,
			CreatedAt:      v.CreatedAt,
			CardType:       VerbType,
		})
	case c.Type == SentenceType && c.Sentence != nil:
		s := c.Sentence
		return json.Marshal(sentenceCardJSON{
			ID:                 s.ID,
			SpanishSentence:    s.SpanishSentence,
			EnglishTranslation: s.EnglishTranslation,
			GrammarNotes:       s.GrammarNotes,
			GrammarNotesHTML:   c.notesHTML,
			CreatedAt:          s.CreatedAt,
			CardType:           SentenceType,
		})
	}
	return nil, errors.Errorf("card of type %q has no matching record", c.Type)
}

// Listing is the response of the card listing.
type Listing struct {
	Cards []Card `json:"cards"`
	Count int    `json:"count"`
}
