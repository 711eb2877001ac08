// Package tags classifies markup tags into the coarse categories used to
// annotate split nodes. The table order is significant: categories are
// checked top to bottom and the first one containing the tag wins.
package tags

// Category names a group of tags.
type Category struct {
	Name string
	Tags []string
}

var categories = []Category{
	{Name: "body", Tags: []string{"html", "body"}},
	{Name: "group", Tags: []string{"div", "section", "p"}},
	{Name: "header", Tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"}},
	{Name: "table", Tags: []string{"table"}},
	{Name: "list", Tags: []string{"ul", "ol"}},
	{Name: "def", Tags: []string{"dl"}},
	{Name: "code", Tags: []string{"pre", "code"}},
	{Name: "math", Tags: []string{"math"}},
}

// Categories returns a copy of the ordered category table.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Tags: append([]string(nil), c.Tags...)}
	}
	return out
}

// Classify returns the category of tag, or "" when no category lists it.
func Classify(tag string) string {
	for _, c := range categories {
		for _, t := range c.Tags {
			if t == tag {
				return c.Name
			}
		}
	}
	return ""
}

// Set is a set of tag names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Splittable returns the union of every category's tags.
func Splittable() Set {
	s := make(Set)
	for _, c := range categories {
		for _, t := range c.Tags {
			s[t] = struct{}{}
		}
	}
	return s
}
