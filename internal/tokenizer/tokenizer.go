// Package tokenizer counts tokens for grouping budgets. Implementations are
// injected into the splitter and grouper; there is no package-level instance.
package tokenizer

import (
	"fmt"
	"strings"
)

// Tokenizer counts the tokens of a text under one fixed scheme.
type Tokenizer interface {
	Count(text string) (int, error)
}

// Func adapts a plain counting function.
type Func func(text string) int

func (f Func) Count(text string) (int, error) {
	return f(text), nil
}

// Words counts whitespace-separated words. Deterministic and dependency free,
// it is what tests use in place of a BPE vocabulary.
var Words = Func(func(text string) int {
	return len(strings.Fields(text))
})

const (
	NameTiktoken = "tiktoken"
	NameEstimate = "estimate"

	DefaultEncoding = "cl100k_base"
)

// New returns the tokenizer registered under name.
func New(name, encoding string) (Tokenizer, error) {
	switch strings.ToLower(name) {
	case "", NameTiktoken:
		return NewTiktoken(encoding)
	case NameEstimate:
		return Estimate{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer: %q", name)
	}
}
