package node

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDecode        = errors.New("no supported encoding could decode the document")
	ErrParse         = errors.New("malformed markup")
	ErrNormalization = errors.New("normalization failed")
	ErrTokenization  = errors.New("tokenization failed")
	ErrInvalidInput  = errors.New("invalid input")
)

// NodeError reports a collaborator failure on a specific atomic element.
type NodeError struct {
	Index int    // node_idx the element would have received
	Tag   string // element tag
	Kind  error  // ErrNormalization or ErrTokenization
	Err   error  // underlying collaborator error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %d <%s>: %s: %v", e.Index, e.Tag, e.Kind, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the collaborator error.
func (e *NodeError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
