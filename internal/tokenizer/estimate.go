package tokenizer

import "strings"

// Estimate gives a rough token count from the word count (~1.33 tokens per
// English word). Use it when no BPE vocabulary is available.
type Estimate struct{}

func (Estimate) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens, nil
}
