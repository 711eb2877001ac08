package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	n, err := Words.Count("one two  three\nfour")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = Words.Count("   ")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word rounds up to one", "hi", 1},
		{"whitespace only", "   ", 1},
		{"hundred words", strings.Repeat("word ", 100), 133},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Estimate{}.Count(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNew_Estimate(t *testing.T) {
	tok, err := New("estimate", "")
	require.NoError(t, err)
	assert.IsType(t, Estimate{}, tok)

	tok, err = New("ESTIMATE", "")
	require.NoError(t, err)
	assert.IsType(t, Estimate{}, tok)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("sentencepiece", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tokenizer")
}

func TestTiktoken_NilReceiver(t *testing.T) {
	var tk *Tiktoken
	_, err := tk.Count("text")
	require.Error(t, err)
}
