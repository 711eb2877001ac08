package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/splitml/internal/grouper"
	"github.com/dgallion1/splitml/internal/node"
	"github.com/dgallion1/splitml/internal/parser"
	"github.com/dgallion1/splitml/internal/splitter"
	"github.com/dgallion1/splitml/internal/stats"
)

// Level holds the groups produced for one threshold.
type Level struct {
	MaxTokens int                `json:"max_tokens"`
	Groups    []node.GroupedNode `json:"groups"`
}

// Result is the output of a split or chunk call.
type Result struct {
	Format   parser.Format      `json:"format"`
	Metadata map[string]string  `json:"metadata,omitempty"`
	Nodes    []node.AtomicNode  `json:"nodes"`
	Groups   []node.GroupedNode `json:"groups,omitempty"` // All levels, threshold-major
	Levels   []Level            `json:"levels,omitempty"`
	Stats    node.TokenStats    `json:"stats"`
}

// Pipeline composes format resolution, splitting and grouping.
type Pipeline struct {
	splitter   *splitter.Splitter
	grouper    *grouper.Grouper
	thresholds []int
	latency    *stats.Latency
	log        *slog.Logger
}

// New creates a Pipeline. Empty thresholds mean grouper.DefaultThresholds;
// latency may be nil.
func New(s *splitter.Splitter, g *grouper.Grouper, thresholds []int, latency *stats.Latency, log *slog.Logger) (*Pipeline, error) {
	if s == nil || g == nil {
		return nil, errors.New("splitter and grouper are required")
	}
	if len(thresholds) == 0 {
		thresholds = grouper.DefaultThresholds()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		splitter:   s,
		grouper:    g,
		thresholds: append([]int(nil), thresholds...),
		latency:    latency,
		log:        log.With("component", "pipeline"),
	}, nil
}

// Thresholds returns t, or the configured defaults when t is empty.
func (p *Pipeline) Thresholds(t []int) []int {
	if len(t) == 0 {
		return append([]int(nil), p.thresholds...)
	}
	return t
}

// Split resolves raw and returns its atomic nodes.
func (p *Pipeline) Split(raw string, format parser.Format) (Result, error) {
	return p.SplitBytes([]byte(raw), "", format)
}

// SplitBytes resolves data, using filename for format detection, and splits it.
func (p *Pipeline) SplitBytes(data []byte, filename string, format parser.Format) (Result, error) {
	start := time.Now()
	doc, err := p.splitter.Resolver().Resolve(data, filename, format)
	if err != nil {
		return Result{}, err
	}
	res, err := p.split(doc)
	if err != nil {
		return Result{}, err
	}
	p.record(stats.OpSplit, start, len(res.Nodes))
	return res, nil
}

// Chunk resolves, splits and groups raw. Empty thresholds use the defaults.
func (p *Pipeline) Chunk(raw string, format parser.Format, thresholds []int) (Result, error) {
	return p.ChunkBytes([]byte(raw), "", format, thresholds)
}

// ChunkFile reads path, then chunks it like Chunk.
func (p *Pipeline) ChunkFile(path string, format parser.Format, thresholds []int) (Result, error) {
	start := time.Now()
	doc, err := p.splitter.Resolver().ResolveFile(path, format)
	if err != nil {
		return Result{}, err
	}
	res, err := p.chunk(doc, thresholds)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	p.record(stats.OpChunk, start, len(res.Nodes))
	return res, nil
}

// ChunkBytes chunks data, using filename for format detection.
func (p *Pipeline) ChunkBytes(data []byte, filename string, format parser.Format, thresholds []int) (Result, error) {
	start := time.Now()
	doc, err := p.splitter.Resolver().Resolve(data, filename, format)
	if err != nil {
		return Result{}, err
	}
	res, err := p.chunk(doc, thresholds)
	if err != nil {
		return Result{}, err
	}
	p.record(stats.OpChunk, start, len(res.Nodes))
	return res, nil
}

// Group fills the groups and levels of a split result.
func (p *Pipeline) Group(res Result, thresholds []int) (Result, error) {
	thresholds = p.Thresholds(thresholds)
	levels, err := p.grouper.Levels(res.Nodes, thresholds)
	if err != nil {
		return Result{}, err
	}

	res.Levels = make([]Level, len(levels))
	res.Groups = nil
	for i, groups := range levels {
		res.Levels[i] = Level{MaxTokens: thresholds[i], Groups: groups}
		res.Groups = append(res.Groups, groups...)
	}
	p.log.Info("grouped document", "nodes", len(res.Nodes), "levels", len(levels), "groups", len(res.Groups))
	return res, nil
}

func (p *Pipeline) chunk(doc parser.Document, thresholds []int) (Result, error) {
	res, err := p.split(doc)
	if err != nil {
		return Result{}, err
	}
	return p.Group(res, thresholds)
}

func (p *Pipeline) split(doc parser.Document) (Result, error) {
	nodes, err := p.splitter.SplitHTML(doc.HTML)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Format:   doc.Format,
		Metadata: doc.Metadata,
		Nodes:    nodes,
		Stats:    node.Stats(nodes),
	}
	p.log.Debug("split document",
		"format", doc.Format,
		"nodes", res.Stats.Count,
		"total_tokens", res.Stats.Total,
		"avg_tokens", res.Stats.Avg,
		"max_tokens", res.Stats.Max,
		"min_tokens", res.Stats.Min,
	)
	return res, nil
}

func (p *Pipeline) record(op string, start time.Time, nodes int) {
	if p.latency != nil {
		p.latency.Record(op, time.Since(start), nodes)
	}
}
