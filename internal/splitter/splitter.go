// Package splitter breaks an HTML document into atomic structural nodes.
package splitter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/splitml/internal/node"
	"github.com/dgallion1/splitml/internal/normalize"
	"github.com/dgallion1/splitml/internal/parser"
	"github.com/dgallion1/splitml/internal/tags"
	"github.com/dgallion1/splitml/internal/tokenizer"
)

// DefaultMaxNodes bounds the number of atomic nodes per document.
const DefaultMaxNodes = 100000

// Splitter resolves documents to HTML and splits them into AtomicNodes.
type Splitter struct {
	annotator  *Annotator
	resolver   parser.Resolver
	splittable tags.Set
	maxNodes   int
	logger     *slog.Logger
}

type options struct {
	resolver   parser.Resolver
	splittable tags.Set
	maxNodes   int
	logger     *slog.Logger
}

// Option configures a Splitter.
type Option func(*options)

// WithSplittable overrides the splittable tag set.
func WithSplittable(s tags.Set) Option {
	return func(o *options) {
		if len(s) > 0 {
			o.splittable = s
		}
	}
}

// WithMaxNodes sets the node count guard; documents producing more nodes fail.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxNodes = n
		}
	}
}

// WithResolver sets the format resolver used by Split and SplitFile.
func WithResolver(r parser.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLogger sets the logger for split diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a Splitter. Both collaborators are required.
func New(n normalize.Normalizer, t tokenizer.Tokenizer, opts ...Option) (*Splitter, error) {
	if n == nil {
		return nil, errors.New("normalizer cannot be nil")
	}
	if t == nil {
		return nil, errors.New("tokenizer cannot be nil")
	}

	o := options{
		splittable: tags.Splittable(),
		maxNodes:   DefaultMaxNodes,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Splitter{
		annotator:  NewAnnotator(n, t),
		resolver:   o.resolver,
		splittable: o.splittable,
		maxNodes:   o.maxNodes,
		logger:     o.logger.With("component", "splitter"),
	}, nil
}

// Resolver returns the format resolver.
func (s *Splitter) Resolver() parser.Resolver {
	return s.resolver
}

// Split resolves raw in the given format (FormatAuto sniffs) and splits it.
func (s *Splitter) Split(raw string, format parser.Format) ([]node.AtomicNode, error) {
	doc, err := s.resolver.Resolve([]byte(raw), "", format)
	if err != nil {
		return nil, err
	}
	return s.SplitHTML(doc.HTML)
}

// SplitFile reads, resolves and splits the file at path. FormatAuto uses the
// extension, then sniffs the content.
func (s *Splitter) SplitFile(path string, format parser.Format) ([]node.AtomicNode, error) {
	doc, err := s.resolver.ResolveFile(path, format)
	if err != nil {
		return nil, err
	}
	return s.SplitHTML(doc.HTML)
}

// SplitHTML parses markup and returns its atomic nodes in document order.
// The first annotation failure aborts the whole document.
func (s *Splitter) SplitHTML(markup string) ([]node.AtomicNode, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", node.ErrParse, err)
	}

	elements := Extract(doc, s.splittable)
	if len(elements) > s.maxNodes {
		return nil, fmt.Errorf("%w: document has %d nodes (max %d)", node.ErrInvalidInput, len(elements), s.maxNodes)
	}

	nodes := make([]node.AtomicNode, 0, len(elements))
	for i, el := range elements {
		n, err := s.annotator.Annotate(el, i)
		if err != nil {
			s.logger.Warn("annotate failed", "node_idx", i, "tag", el.Data, "error", err)
			return nil, err
		}
		nodes = append(nodes, n)
	}

	s.logger.Debug("split document", "nodes", len(nodes), "html_len", node.Len(markup))
	return nodes, nil
}
