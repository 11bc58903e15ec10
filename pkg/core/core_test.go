package core

import (
	"context"
	"encoding/json"
	"testing"

	"flashcards/pkg/store"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) (*CoreImpl, *store.StorageImpl) {
	t.Helper()
	s, err := store.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s), s
}

func str(s string) *string { return &s }

func validVerb(form string) VerbCardInput {
	return VerbCardInput{
		Verb:           str("hablar"),
		Pronoun:        str("yo"),
		Tense:          str("present"),
		Mood:           str("indicative"),
		ConjugatedForm: str(form),
	}
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)

	n, err := c.Save(ctx, SaveRequest{
		VerbCards: []VerbCardInput{validVerb("hablo")},
		SentenceCards: []SentenceCardInput{{
			SpanishSentence:    str("¿Dónde está la biblioteca?"),
			EnglishTranslation: str("Where is the library?"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	listing, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, listing.Count)
	require.Len(t, listing.Cards, 2)

	assert.Equal(t, VerbType, listing.Cards[0].Type)
	assert.Equal(t, "hablo", listing.Cards[0].Verb.ConjugatedForm)
	assert.Equal(t, SentenceType, listing.Cards[1].Type)
	assert.Equal(t, "", listing.Cards[1].Sentence.GrammarNotes)
}

func TestListPutsVerbCardsBeforeSentenceCards(t *testing.T) {
	ctx := context.Background()
	c, s := newTestCore(t)

	_, err := s.InsertSentenceCard(ctx, store.NewSentenceCard{SpanishSentence: str("Uno"), EnglishTranslation: str("One")})
	require.NoError(t, err)
	_, err = s.InsertVerbCard(ctx, store.NewVerbCard{Verb: str("ser"), Pronoun: str("yo"), Tense: str("present"), Mood: str("indicative"), ConjugatedForm: str("soy")})
	require.NoError(t, err)
	_, err = s.InsertSentenceCard(ctx, store.NewSentenceCard{SpanishSentence: str("Dos"), EnglishTranslation: str("Two")})
	require.NoError(t, err)

	listing, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, listing.Cards, 3)

	assert.Equal(t, VerbType, listing.Cards[0].Type)
	assert.Equal(t, "Dos", listing.Cards[1].Sentence.SpanishSentence)
	assert.Equal(t, "Uno", listing.Cards[2].Sentence.SpanishSentence)
}

func TestSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)

	_, err := c.Save(ctx, SaveRequest{
		VerbCards:     []VerbCardInput{validVerb("hablo"), validVerb("hablas")},
		SentenceCards: []SentenceCardInput{{SpanishSentence: str("Hola")}},
	})
	require.Error(t, err)

	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, SentenceType, missing.Kind)
	assert.Equal(t, "english_translation", missing.Field)

	listing, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Count)
}

func TestSaveMissingVerbField(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)

	in := validVerb("hablo")
	in.Mood = nil
	_, err := c.Save(ctx, SaveRequest{VerbCards: []VerbCardInput{validVerb("hablas"), in}})
	require.Error(t, err)
	assert.EqualError(t, err, `verb card 1: missing field "mood"`)

	listing, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing.Cards)
}

func TestSaveEmptyRequest(t *testing.T) {
	c, _ := newTestCore(t)

	n, err := c.Save(context.Background(), SaveRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteRoutesByType(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)

	_, err := c.Save(ctx, SaveRequest{
		VerbCards:     []VerbCardInput{validVerb("hablo")},
		SentenceCards: []SentenceCardInput{{SpanishSentence: str("Hola"), EnglishTranslation: str("Hi")}},
	})
	require.NoError(t, err)

	listing, err := c.List(ctx)
	require.NoError(t, err)
	sentenceID := listing.Cards[1].Sentence.ID

	require.NoError(t, c.Delete(ctx, sentenceID, SentenceType))
	require.NoError(t, c.Delete(ctx, 999, VerbType))

	listing, err = c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, VerbType, listing.Cards[0].Type)
}

func TestParseCardType(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
		want    CardType
	}{
		{"", false, VerbType},
		{"verb", true, VerbType},
		{"sentence", true, SentenceType},
		{"", true, SentenceType},
		{"VERB", true, SentenceType},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCardType(tt.raw, tt.present), "raw=%q present=%v", tt.raw, tt.present)
	}
}

func TestCardMarshalJSON(t *testing.T) {
	verb := Card{Type: VerbType, Verb: &store.VerbCard{ID: 3, Verb: "ir", Pronoun: "yo", Tense: "present", Mood: "indicative", ConjugatedForm: "voy"}}
	data, err := json.Marshal(verb)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "verb", got["card_type"])
	assert.Equal(t, "voy", got["conjugated_form"])
	assert.EqualValues(t, 3, got["id"])
	assert.NotContains(t, got, "spanish_sentence")

	sentence := Card{Type: SentenceType, Sentence: &store.SentenceCard{ID: 3, SpanishSentence: "Voy", EnglishTranslation: "I go", GrammarNotes: "**ir** is irregular"}}
	sentence.notesHTML = renderNotes(sentence.Sentence.GrammarNotes)
	data, err = json.Marshal(sentence)
	require.NoError(t, err)

	got = nil
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "sentence", got["card_type"])
	assert.Equal(t, "**ir** is irregular", got["grammar_notes"])
	assert.Contains(t, got["grammar_notes_html"], "<strong>ir</strong>")
	assert.NotContains(t, got, "conjugated_form")

	_, err = json.Marshal(Card{Type: VerbType})
	assert.Error(t, err)

	_, err = Card{Type: SentenceType, Verb: verb.Verb}.MarshalJSON()
	require.EqualError(t, err, `card of type "sentence" has no matching record`)
	_, traced := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, traced)
}

func TestRenderNotes(t *testing.T) {
	assert.Equal(t, "", renderNotes(""))
	assert.Equal(t, "", renderNotes("   \n"))
	assert.Equal(t, "<p>Uses <em>subjunctive</em> after <strong>ojalá</strong>.</p>", renderNotes("Uses *subjunctive* after **ojalá**."))
	assert.Contains(t, renderNotes("see [RAE](https://www.rae.es)"), `target="_blank"`)
}

func TestRenderNotes_DropsUnsafeMarkup(t *testing.T) {
	tests := []struct {
		name   string
		notes  string
		absent []string
	}{
		{"inline html", "<img src=x onerror=alert(1)> after", []string{"<img", "onerror"}},
		{"html block", "<div onclick=\"alert(1)\">x</div>", []string{"<div", "onclick"}},
		{"script", "<script>alert(1)</script>", []string{"<script"}},
		{"javascript link", "[x](javascript:alert(1))", []string{"href", "javascript:"}},
		{"data link", "[x](data:text/html,hi)", []string{"href", "data:"}},
		{"image", "![x](javascript:alert(1))", []string{"<img", "javascript:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderNotes(tt.notes)
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}

	out := renderNotes("[RAE](https://www.rae.es) and [ayuda](mailto:ayuda@rae.es)")
	assert.Contains(t, out, `href="https://www.rae.es"`)
	assert.Contains(t, out, `href="mailto:ayuda@rae.es"`)
	assert.Contains(t, out, `rel="noopener"`)
}

type failingStorage struct {
	store.Storage
	err error
}

func (f failingStorage) ListVerbCards(ctx context.Context) ([]store.VerbCard, error) {
	return nil, f.err
}

func TestListPropagatesStoreFailure(t *testing.T) {
	c := New(failingStorage{err: errors.New("database is locked")})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
