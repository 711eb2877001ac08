package parser

// HTMLRenderer passes HTML through unchanged.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(src []byte) (Document, error) {
	return Document{HTML: string(src)}, nil
}
