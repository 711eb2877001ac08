package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tiktoken counts BPE tokens with an OpenAI encoding (cl100k_base by default).
type Tiktoken struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding. The first load may fetch the BPE
// ranks file; later loads hit the tiktoken-go cache.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Tiktoken{encoding: encoding, enc: enc}, nil
}

// Encoding returns the encoding name.
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

func (t *Tiktoken) Count(text string) (n int, err error) {
	if t == nil || t.enc == nil {
		return 0, fmt.Errorf("tiktoken encoding not loaded")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode with %s: %v", t.encoding, r)
		}
	}()
	return len(t.enc.Encode(text, nil, nil)), nil
}
