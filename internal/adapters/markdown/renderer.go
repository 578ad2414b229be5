package markdown

import (
	"bytes"
	"fmt"

	"chipin/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type goldmarkRenderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a ContentRenderer that converts GitHub-flavoured
// markdown to HTML. Raw HTML in the source is dropped.
func NewRenderer() domain.ContentRenderer {
	return &goldmarkRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *goldmarkRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
