package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed guide/*.md
var guideFiles embed.FS

// renderGuide converts every embedded guide to HTML, keyed by language.
func renderGuide() (map[string]string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	entries, err := fs.ReadDir(guideFiles, "guide")
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".md" {
			continue
		}
		src, err := guideFiles.ReadFile("guide/" + name)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("render guide %s: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".md")] = buf.String()
	}
	return out, nil
}
