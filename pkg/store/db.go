package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS verb_cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	verb TEXT NOT NULL,
	pronoun TEXT NOT NULL,
	tense TEXT NOT NULL,
	mood TEXT NOT NULL,
	conjugated_form TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sentence_cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	spanish_sentence TEXT NOT NULL,
	english_translation TEXT NOT NULL,
	grammar_notes TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

type Storage interface {
	Close()
	ListVerbCards(ctx context.Context) ([]VerbCard, error)
	ListSentenceCards(ctx context.Context) ([]SentenceCard, error)
	InsertVerbCard(ctx context.Context, card NewVerbCard) (int64, error)
	InsertSentenceCard(ctx context.Context, card NewSentenceCard) (int64, error)
	DeleteVerbCard(ctx context.Context, id int64) error
	DeleteSentenceCard(ctx context.Context, id int64) error
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes allowed inside WithTx.
type Tx interface {
	InsertVerbCard(ctx context.Context, card NewVerbCard) (int64, error)
	InsertSentenceCard(ctx context.Context, card NewSentenceCard) (int64, error)
}

type StorageImpl struct {
	db *sqlx.DB
}

// Connect opens the card database at dbPath and creates the schema if absent.
// ":memory:" is accepted.
func Connect(dbPath string) (*StorageImpl, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open cards db")
	}
	// One connection: writes serialize on it and in-memory databases are not
	// split across connections.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init cards schema")
	}
	return &StorageImpl{db}, nil
}

// InitSchema is idempotent.
func InitSchema(db *sqlx.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *StorageImpl) Close() {
	s.db.Close()
}

func (s *StorageImpl) ListVerbCards(ctx context.Context) ([]VerbCard, error) {
	var cards []VerbCard
	if err := s.db.SelectContext(ctx, &cards, `
SELECT id, verb, pronoun, tense, mood, conjugated_form, created_at
FROM verb_cards
ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, errors.Wrap(err, "select verb cards")
	}
	return cards, nil
}

func (s *StorageImpl) ListSentenceCards(ctx context.Context) ([]SentenceCard, error) {
	var cards []SentenceCard
	if err := s.db.SelectContext(ctx, &cards, `
SELECT id, spanish_sentence, english_translation, COALESCE(grammar_notes, '') AS grammar_notes, created_at
FROM sentence_cards
ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, errors.Wrap(err, "select sentence cards")
	}
	return cards, nil
}

func (s *StorageImpl) InsertVerbCard(ctx context.Context, card NewVerbCard) (int64, error) {
	return insertVerbCard(ctx, s.db, card)
}

func (s *StorageImpl) InsertSentenceCard(ctx context.Context, card NewSentenceCard) (int64, error) {
	return insertSentenceCard(ctx, s.db, card)
}

// DeleteVerbCard is a no-op for an unknown id.
func (s *StorageImpl) DeleteVerbCard(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM verb_cards WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "delete verb card %d", id)
	}
	return nil
}

// DeleteSentenceCard is a no-op for an unknown id.
func (s *StorageImpl) DeleteSentenceCard(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sentence_cards WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "delete sentence card %d", id)
	}
	return nil
}

// WithTx commits the writes made by fn, or rolls all of them back when fn
// returns an error.
func (s *StorageImpl) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(&txImpl{sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

type txImpl struct {
	tx *sqlx.Tx
}

func (t *txImpl) InsertVerbCard(ctx context.Context, card NewVerbCard) (int64, error) {
	return insertVerbCard(ctx, t.tx, card)
}

func (t *txImpl) InsertSentenceCard(ctx context.Context, card NewSentenceCard) (int64, error) {
	return insertSentenceCard(ctx, t.tx, card)
}

func insertVerbCard(ctx context.Context, db sqlx.ExecerContext, card NewVerbCard) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO verb_cards (verb, pronoun, tense, mood, conjugated_form)
VALUES (?, ?, ?, ?, ?)`, card.Verb, card.Pronoun, card.Tense, card.Mood, card.ConjugatedForm)
	if err != nil {
		return 0, errors.Wrap(err, "insert verb card")
	}
	return res.LastInsertId()
}

func insertSentenceCard(ctx context.Context, db sqlx.ExecerContext, card NewSentenceCard) (int64, error) {
	notes := ""
	if card.GrammarNotes != nil {
		notes = *card.GrammarNotes
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO sentence_cards (spanish_sentence, english_translation, grammar_notes)
VALUES (?, ?, ?)`, card.SpanishSentence, card.EnglishTranslation, notes)
	if err != nil {
		return 0, errors.Wrap(err, "insert sentence card")
	}
	return res.LastInsertId()
}
