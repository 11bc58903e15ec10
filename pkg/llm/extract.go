package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoJSON = errors.New("no JSON object in completion")

// ExtractJSON returns the JSON object embedded in a chatty completion: the
// text from the first '{' through the last '}', if it decodes as JSON. The
// result is compacted but otherwise unchanged.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}

	candidate := []byte(text[start : end+1])
	var buf bytes.Buffer
	if err := json.Compact(&buf, candidate); err != nil {
		return nil, errors.Wrap(ErrNoJSON, err.Error())
	}
	return json.RawMessage(buf.Bytes()), nil
}
