package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errNilCounter = errors.New("nil tokenizer counter")

// Estimate is the token count of one produced document.
type Estimate struct {
	Model  string `json:"model" xml:"model,attr"`
	Tokens int    `json:"tokens" xml:"tokens,attr"`
}

// EstimateDocument counts the tokens of a bundle document. Invalid UTF-8 is
// repaired before counting so the count matches what a model would receive.
func EstimateDocument(counter Counter, model string, document string) (Estimate, error) {
	if counter == nil {
		return Estimate{}, errNilCounter
	}
	if !utf8.ValidString(document) {
		document = strings.ToValidUTF8(document, "\uFFFD")
	}
	tokens, err := counter.CountString(document)
	if err != nil {
		return Estimate{}, fmt.Errorf("count tokens with %s: %w", counter.Name(), err)
	}
	if model == "" {
		model = counter.Name()
	}
	return Estimate{Model: model, Tokens: tokens}, nil
}
