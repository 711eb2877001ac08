// Package grouper packs consecutive atomic nodes into token-bounded groups,
// once per threshold ("resolution level").
package grouper

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/splitml/internal/node"
	"github.com/dgallion1/splitml/internal/tokenizer"
)

// DefaultThresholds returns the default resolution levels in tokens.
func DefaultThresholds() []int {
	return []int{128, 256, 512, 1024, 2048}
}

// Separator joins member HTML and text inside a group.
const Separator = "\n\n"

// Grouper runs greedy multi-resolution grouping.
type Grouper struct {
	tokenizer tokenizer.Tokenizer
	parallel  bool
	logger    *slog.Logger
}

type options struct {
	parallel bool
	logger   *slog.Logger
}

// Option configures a Grouper.
type Option func(*options)

// WithParallel computes levels concurrently. Output order is unchanged.
func WithParallel(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}

// WithLogger sets the logger for per-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a Grouper that re-tokenizes merged text with t.
func New(t tokenizer.Tokenizer, opts ...Option) (*Grouper, error) {
	if t == nil {
		return nil, errors.New("tokenizer cannot be nil")
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Grouper{
		tokenizer: t,
		parallel:  o.parallel,
		logger:    o.logger.With("component", "grouper"),
	}, nil
}

// Group partitions nodes once per threshold and merges every run. The result
// holds all groups for thresholds[0], then thresholds[1], and so on, in the
// order given; duplicates are not removed.
func (g *Grouper) Group(nodes []node.AtomicNode, thresholds []int) ([]node.GroupedNode, error) {
	levels, err := g.Levels(nodes, thresholds)
	if err != nil {
		return nil, err
	}
	var total int
	for _, l := range levels {
		total += len(l)
	}
	out := make([]node.GroupedNode, 0, total)
	for _, l := range levels {
		out = append(out, l...)
	}
	return out, nil
}

// Levels is Group without the final concatenation: levels[i] holds the
// groups for thresholds[i].
func (g *Grouper) Levels(nodes []node.AtomicNode, thresholds []int) ([][]node.GroupedNode, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes to group", node.ErrInvalidInput)
	}
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("%w: no thresholds", node.ErrInvalidInput)
	}
	for _, t := range thresholds {
		if t <= 0 {
			return nil, fmt.Errorf("%w: threshold must be positive, got %d", node.ErrInvalidInput, t)
		}
	}

	levels := make([][]node.GroupedNode, len(thresholds))
	if !g.parallel || len(thresholds) == 1 {
		for i, t := range thresholds {
			groups, err := g.level(nodes, t)
			if err != nil {
				return nil, err
			}
			levels[i] = groups
		}
		return levels, nil
	}

	// Each goroutine writes only its own slot.
	var eg errgroup.Group
	for i, t := range thresholds {
		eg.Go(func() error {
			groups, err := g.level(nodes, t)
			if err != nil {
				return err
			}
			levels[i] = groups
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return levels, nil
}

func (g *Grouper) level(nodes []node.AtomicNode, threshold int) ([]node.GroupedNode, error) {
	runs := Partition(nodes, threshold)
	groups := make([]node.GroupedNode, 0, len(runs))
	for i, run := range runs {
		gn, err := Merge(run, g.tokenizer)
		if err != nil {
			return nil, fmt.Errorf("threshold %d run %d: %w", threshold, i, err)
		}
		groups = append(groups, gn)
	}
	g.logger.Debug("grouped level", "max_tokens", threshold, "nodes", len(nodes), "groups", len(groups))
	return groups, nil
}

// Partition splits nodes into maximal consecutive runs whose token sum stays
// within threshold. A node larger than threshold on its own always gets a
// singleton run.
func Partition(nodes []node.AtomicNode, threshold int) [][]node.AtomicNode {
	var runs [][]node.AtomicNode
	var run []node.AtomicNode
	sum := 0
	for _, n := range nodes {
		if len(run) > 0 && sum+n.TextTokens > threshold {
			runs = append(runs, run)
			run = nil
			sum = 0
		}
		run = append(run, n)
		sum += n.TextTokens
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// Merge concatenates a run into one GroupedNode. TextTokens is counted on the
// joined text, so it can differ from the sum of the members.
func Merge(run []node.AtomicNode, t tokenizer.Tokenizer) (node.GroupedNode, error) {
	if len(run) == 0 {
		return node.GroupedNode{}, fmt.Errorf("%w: empty run", node.ErrInvalidInput)
	}

	htmlParts := make([]string, len(run))
	textParts := make([]string, len(run))
	idxs := make([]int, len(run))
	for i, n := range run {
		htmlParts[i] = n.HTML
		textParts[i] = n.Text
		idxs[i] = n.NodeIdx
	}
	markup := strings.Join(htmlParts, Separator)
	text := strings.Join(textParts, Separator)

	tokens, err := t.Count(text)
	if err != nil {
		return node.GroupedNode{}, fmt.Errorf("%w: %w", node.ErrTokenization, err)
	}

	return node.GroupedNode{
		HTML:        markup,
		Text:        text,
		TagType:     node.GroupedTagType,
		HTMLLen:     node.Len(markup),
		TextLen:     node.Len(text),
		TextTokens:  tokens,
		ElementIdxs: idxs,
	}, nil
}
