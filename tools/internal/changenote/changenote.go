// Package changenote extracts changed keyword names from a markdown
// change note, so impact analysis can be seeded straight from review
// notes instead of one --keyword flag at a time.
package changenote

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Heading is the markdown heading that introduces the section holding
// the changed keywords listing.
const Heading = "Changed Keywords"

// ErrNotFound indicates the change note carries no valid changed
// keywords listing.
var ErrNotFound = errors.New(`did not detect a "Changed Keywords" yaml listing`)

// Parse extracts the changed keyword names from a change note.  The
// first yaml code block in the "Changed Keywords" section is used;
// code blocks elsewhere in the note are ignored.
//
// Expected markdown format:
//
//	## Changed Keywords
//
//	```yaml
//	keywords:
//	  - Power Cycle Host
//	  - Read Fan Sensors
//	```
func Parse(source []byte) ([]string, error) {
	listing := keywordListing(source)
	if listing == nil {
		return nil, ErrNotFound
	}
	return parseYAML(listing)
}

// keywordListing returns the raw yaml source of the changed keywords
// listing, or nil if the note has none.  The listing is the first
// yaml fenced code block between the Heading and the next heading of
// any level.
func keywordListing(source []byte) []byte {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	inSection := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			inSection = headingText(source, n) == Heading
		case *ast.FencedCodeBlock:
			if !inSection || n.Info == nil || string(n.Info.Text(source)) != "yaml" {
				continue
			}
			var buf bytes.Buffer
			for i := 0; i != n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				buf.Write(line.Value(source))
			}
			return buf.Bytes()
		}
	}
	return nil
}

// headingText flattens the text children of a heading.
func headingText(source []byte, h *ast.Heading) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}

func parseYAML(source []byte) ([]string, error) {
	var doc struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, err
	}
	if len(doc.Keywords) == 0 {
		return nil, ErrNotFound
	}
	return doc.Keywords, nil
}
