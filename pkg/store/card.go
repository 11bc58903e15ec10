package store

import "time"

type VerbCard struct {
	ID             int64     `db:"id"`
	Verb           string    `db:"verb"`
	Pronoun        string    `db:"pronoun"`
	Tense          string    `db:"tense"`
	Mood           string    `db:"mood"`
	ConjugatedForm string    `db:"conjugated_form"`
	CreatedAt      time.Time `db:"created_at"`
}

type SentenceCard struct {
	ID                 int64     `db:"id"`
	SpanishSentence    string    `db:"spanish_sentence"`
	EnglishTranslation string    `db:"english_translation"`
	GrammarNotes       string    `db:"grammar_notes"`
	CreatedAt          time.Time `db:"created_at"`
}

// NewVerbCard holds insert values. A nil field is written as NULL and rejected
// by the table constraints.
type NewVerbCard struct {
	Verb           *string
	Pronoun        *string
	Tense          *string
	Mood           *string
	ConjugatedForm *string
}

// NewSentenceCard holds insert values. Nil GrammarNotes is stored as "".
type NewSentenceCard struct {
	SpanishSentence    *string
	EnglishTranslation *string
	GrammarNotes       *string
}
