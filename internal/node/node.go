package node

import "unicode/utf8"

// GroupedTagType is the tag_type of every merged group.
const GroupedTagType = "grouped"

// AtomicNode is one minimal structural unit of a source document.
type AtomicNode struct {
	Tag        string `json:"tag"`      // Source tag name, e.g. "p"
	TagType    string `json:"tag_type"` // Category from tags.Classify, may be empty
	HTML       string `json:"html"`     // Serialized markup including descendants
	Text       string `json:"text"`     // Normalized markdown-flavored text
	HTMLLen    int    `json:"html_len"`
	TextLen    int    `json:"text_len"`
	TextTokens int    `json:"text_tokens"`
	NodeIdx    int    `json:"node_idx"` // 0-based document order among emitted nodes
}

// GroupedNode is a contiguous run of AtomicNodes merged for one token budget.
type GroupedNode struct {
	HTML        string `json:"html"`
	Text        string `json:"text"`
	TagType     string `json:"tag_type"`
	HTMLLen     int    `json:"html_len"`
	TextLen     int    `json:"text_len"`
	TextTokens  int    `json:"text_tokens"` // Counted on Text, not summed from members
	ElementIdxs []int  `json:"element_idxs"`
}

// TokenStats summarizes the token counts of a node sequence.
type TokenStats struct {
	Count int `json:"count"`
	Total int `json:"total"`
	Avg   int `json:"avg"`
	Max   int `json:"max"`
	Min   int `json:"min"`
}

// Stats computes total, rounded average, max and min of TextTokens.
func Stats(nodes []AtomicNode) TokenStats {
	if len(nodes) == 0 {
		return TokenStats{}
	}
	s := TokenStats{
		Count: len(nodes),
		Max:   nodes[0].TextTokens,
		Min:   nodes[0].TextTokens,
	}
	for _, n := range nodes {
		s.Total += n.TextTokens
		if n.TextTokens > s.Max {
			s.Max = n.TextTokens
		}
		if n.TextTokens < s.Min {
			s.Min = n.TextTokens
		}
	}
	// Half rounds up, not to even.
	s.Avg = (2*s.Total + s.Count) / (2 * s.Count)
	return s
}

// Len returns the character count of s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
