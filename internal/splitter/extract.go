package splitter

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/splitml/internal/tags"
)

// Extract returns, in document order, every element whose tag is in
// splittable and that has no splittable descendant. Containers holding a
// splittable descendant are skipped; their atomic descendants are returned
// instead. Emptiness does not matter: an atomic element with no text is
// still returned.
func Extract(doc *html.Node, splittable tags.Set) []*html.Node {
	var out []*html.Node

	// walk reports whether n's subtree, n included, holds a splittable
	// element. An atomic element's subtree contributes nothing else, so
	// appending on the way back up preserves pre-order.
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		nested := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				nested = true
			}
		}
		if n.Type == html.ElementNode && splittable.Has(n.Data) {
			if !nested {
				out = append(out, n)
			}
			return true
		}
		return nested
	}
	walk(doc)
	return out
}
