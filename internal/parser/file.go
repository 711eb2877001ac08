package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/dgallion1/splitml/internal/node"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encodings tried in order when decoding a document. A nil decoder means
// UTF-8, accepted only when the bytes are valid.
var Encodings = []struct {
	Name    string
	Decoder encoding.Encoding
}{
	{Name: "utf-8"},
	{Name: "latin-1", Decoder: charmap.ISO8859_1},
}

// ReadFile returns the raw bytes at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", node.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Decode converts document bytes to a string using the first encoding in
// Encodings that accepts them.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	for _, enc := range Encodings {
		if enc.Decoder == nil {
			if utf8.Valid(data) {
				return string(data), nil
			}
			continue
		}
		out, err := enc.Decoder.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), nil
		}
	}
	return "", node.ErrDecode
}
