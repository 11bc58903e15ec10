package llm

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned before any request is made.
var ErrEmptyInput = errors.New("empty input")

// MalformedError carries the completion that held no decodable JSON object.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return "Could not parse AI response"
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Generator is the completion backend used by Proxy.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Proxy turns verbs and sentences into prompts and returns the JSON object the
// model answered with. The object's shape is not checked.
type Proxy struct {
	gen Generator
}

func NewProxy(gen Generator) *Proxy {
	return &Proxy{gen: gen}
}

// GenerateVerb asks for the conjugation table of verb.
func (p *Proxy) GenerateVerb(ctx context.Context, verb string) (json.RawMessage, error) {
	if verb == "" {
		return nil, ErrEmptyInput
	}
	return p.complete(ctx, ConjugationPrompt(verb))
}

// ProcessSentence asks for a corrected sentence, its translation and notes.
func (p *Proxy) ProcessSentence(ctx context.Context, sentence string) (json.RawMessage, error) {
	if sentence == "" {
		return nil, ErrEmptyInput
	}
	return p.complete(ctx, SentencePrompt(sentence))
}

func (p *Proxy) complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	obj, err := ExtractJSON(text)
	if err != nil {
		return nil, &MalformedError{Raw: text, Err: err}
	}
	return obj, nil
}
