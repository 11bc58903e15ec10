package core

import (
	"context"
	"fmt"

	"flashcards/pkg/store"

	"github.com/pkg/errors"
)

type Core interface {
	List(ctx context.Context) (*Listing, error)
	Save(ctx context.Context, req SaveRequest) (int, error)
	Delete(ctx context.Context, id int64, kind CardType) error
}

// VerbCardInput is one entry of "verb_cards" in a save request. Pointer
// fields distinguish an absent key from an empty string.
type VerbCardInput struct {
	Verb           *string `json:"verb"`
	Pronoun        *string `json:"pronoun"`
	Tense          *string `json:"tense"`
	Mood           *string `json:"mood"`
	ConjugatedForm *string `json:"conjugated_form"`
}

type SentenceCardInput struct {
	SpanishSentence    *string `json:"spanish_sentence"`
	EnglishTranslation *string `json:"english_translation"`
	GrammarNotes       *string `json:"grammar_notes"`
}

type SaveRequest struct {
	VerbCards     []VerbCardInput     `json:"verb_cards"`
	SentenceCards []SentenceCardInput `json:"sentence_cards"`
}

// MissingFieldError reports a required key absent from a save request entry.
type MissingFieldError struct {
	Kind  CardType
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s card %d: missing field %q", e.Kind, e.Index, e.Field)
}

func (in VerbCardInput) check(i int) error {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"verb", in.Verb},
		{"pronoun", in.Pronoun},
		{"tense", in.Tense},
		{"mood", in.Mood},
		{"conjugated_form", in.ConjugatedForm},
	} {
		if f.value == nil {
			return &MissingFieldError{Kind: VerbType, Index: i, Field: f.name}
		}
	}
	return nil
}

func (in SentenceCardInput) check(i int) error {
	if in.SpanishSentence == nil {
		return &MissingFieldError{Kind: SentenceType, Index: i, Field: "spanish_sentence"}
	}
	if in.EnglishTranslation == nil {
		return &MissingFieldError{Kind: SentenceType, Index: i, Field: "english_translation"}
	}
	return nil
}

type CoreImpl struct {
	storage store.Storage
}

func New(storage store.Storage) *CoreImpl {
	return &CoreImpl{storage}
}

// List returns verb cards newest first followed by sentence cards newest
// first.
func (c *CoreImpl) List(ctx context.Context) (*Listing, error) {
	verbs, err := c.storage.ListVerbCards(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list verb cards")
	}
	sentences, err := c.storage.ListSentenceCards(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list sentence cards")
	}

	cards := make([]Card, 0, len(verbs)+len(sentences))
	for i := range verbs {
		cards = append(cards, Card{Type: VerbType, Verb: &verbs[i]})
	}
	for i := range sentences {
		cards = append(cards, Card{
			Type:      SentenceType,
			Sentence:  &sentences[i],
			notesHTML: renderNotes(sentences[i].GrammarNotes),
		})
	}
	return &Listing{Cards: cards, Count: len(cards)}, nil
}

// Save inserts every card of req in one transaction and returns how many were
// written. On any failure nothing is persisted.
func (c *CoreImpl) Save(ctx context.Context, req SaveRequest) (int, error) {
	saved := 0
	err := c.storage.WithTx(ctx, func(tx store.Tx) error {
		for i, in := range req.VerbCards {
			if err := in.check(i); err != nil {
				return err
			}
			if _, err := tx.InsertVerbCard(ctx, store.NewVerbCard{
				Verb:           in.Verb,
				Pronoun:        in.Pronoun,
				Tense:          in.Tense,
				Mood:           in.Mood,
				ConjugatedForm: in.ConjugatedForm,
			}); err != nil {
				return errors.Wrapf(err, "verb card %d", i)
			}
			saved++
		}
		for i, in := range req.SentenceCards {
			if err := in.check(i); err != nil {
				return err
			}
			if _, err := tx.InsertSentenceCard(ctx, store.NewSentenceCard{
				SpanishSentence:    in.SpanishSentence,
				EnglishTranslation: in.EnglishTranslation,
				GrammarNotes:       in.GrammarNotes,
			}); err != nil {
				return errors.Wrapf(err, "sentence card %d", i)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// Delete removes the card with id from the table selected by kind. Unknown ids
// are not an error.
func (c *CoreImpl) Delete(ctx context.Context, id int64, kind CardType) error {
	if kind == VerbType {
		return c.storage.DeleteVerbCard(ctx, id)
	}
	return c.storage.DeleteSentenceCard(ctx, id)
}
