package node

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	nodes := []AtomicNode{{TextTokens: 3}, {TextTokens: 10}, {TextTokens: 2}}
	s := Stats(nodes)
	assert.Equal(t, TokenStats{Count: 3, Total: 15, Avg: 5, Max: 10, Min: 2}, s)
}

func TestStats_RoundsAverage(t *testing.T) {
	s := Stats([]AtomicNode{{TextTokens: 1}, {TextTokens: 2}})
	assert.Equal(t, 2, s.Avg)

	s = Stats([]AtomicNode{{TextTokens: 1}, {TextTokens: 1}, {TextTokens: 2}})
	assert.Equal(t, 1, s.Avg)

	// 2.5 rounds up to 3, not to the even 2.
	s = Stats([]AtomicNode{{TextTokens: 2}, {TextTokens: 3}})
	assert.Equal(t, 3, s.Avg)
}

func TestStats_Empty(t *testing.T) {
	assert.Equal(t, TokenStats{}, Stats(nil))
}

func TestLen_CountsRunes(t *testing.T) {
	assert.Equal(t, 5, Len("héllo"))
	assert.Equal(t, 0, Len(""))
}

func TestNodeError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&NodeError{Index: 4, Tag: "table", Kind: ErrTokenization, Err: cause})

	assert.ErrorIs(t, err, ErrTokenization)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNormalization)
	assert.Contains(t, err.Error(), "node 4 <table>")
}
