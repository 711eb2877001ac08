package splitter

import (
	"bytes"

	"golang.org/x/net/html"

	"github.com/dgallion1/splitml/internal/node"
	"github.com/dgallion1/splitml/internal/normalize"
	"github.com/dgallion1/splitml/internal/tags"
	"github.com/dgallion1/splitml/internal/tokenizer"
)

// Annotator turns atomic elements into AtomicNodes.
type Annotator struct {
	normalizer normalize.Normalizer
	tokenizer  tokenizer.Tokenizer
}

// NewAnnotator returns an Annotator using n for text and t for token counts.
func NewAnnotator(n normalize.Normalizer, t tokenizer.Tokenizer) *Annotator {
	return &Annotator{normalizer: n, tokenizer: t}
}

// Annotate serializes el, normalizes and tokenizes its text and assigns
// index as node_idx. Collaborator failures come back as *node.NodeError.
func (a *Annotator) Annotate(el *html.Node, index int) (node.AtomicNode, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, el); err != nil {
		return node.AtomicNode{}, &node.NodeError{Index: index, Tag: el.Data, Kind: node.ErrParse, Err: err}
	}
	markup := buf.String()

	text, err := a.normalizer.Normalize(markup)
	if err != nil {
		return node.AtomicNode{}, &node.NodeError{Index: index, Tag: el.Data, Kind: node.ErrNormalization, Err: err}
	}

	tokens, err := a.tokenizer.Count(text)
	if err != nil {
		return node.AtomicNode{}, &node.NodeError{Index: index, Tag: el.Data, Kind: node.ErrTokenization, Err: err}
	}

	return node.AtomicNode{
		Tag:        el.Data,
		TagType:    tags.Classify(el.Data),
		HTML:       markup,
		Text:       text,
		HTMLLen:    node.Len(markup),
		TextLen:    node.Len(text),
		TextTokens: tokens,
		NodeIdx:    index,
	}, nil
}
