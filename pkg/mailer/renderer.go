package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer turns markdown templates into HTML wrapped in a layout.
// Parsed templates and layouts are cached; rendered output is not.
type Renderer struct {
	fs        fs.FS
	md        goldmark.Markdown
	templates map[string]*parsedTemplate
	layouts   map[string]*template.Template
	layoutDir string
	mu        sync.RWMutex
}

type parsedTemplate struct {
	metadata map[string]any
	body     *texttemplate.Template
}

// NewRenderer reads templates from the root of fsys and layouts from layoutDir.
func NewRenderer(fsys fs.FS, layoutDir string) *Renderer {
	if layoutDir == "" {
		layoutDir = "layouts"
	}
	return &Renderer{
		fs:        fsys,
		layoutDir: layoutDir,
		md:        NewMarkdown(),
		templates: make(map[string]*parsedTemplate),
		layouts:   make(map[string]*template.Template),
	}
}

// NewMarkdown returns the goldmark processor used for mail bodies and the
// instructions page.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(NewButtonExtension()))
}

// RenderResult contains the rendered HTML, plain text and front matter.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	// Text is the processed markdown before HTML conversion.
	Text string
}

// Render executes templateName with data and wraps the result in layout.
// The layout receives .Content, .Metadata and .Data.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	tmpl, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := tmpl.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: executing %s: %v", ErrRenderFailed, templateName, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: converting markdown: %v", ErrRenderFailed, err)
	}

	layoutTmpl, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := layoutTmpl.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()),
		"Metadata": tmpl.metadata,
		"Data":     data,
	}); err != nil {
		return nil, fmt.Errorf("%w: executing layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		HTML:     out.String(),
		Text:     markdown.String(),
		Metadata: tmpl.metadata,
	}, nil
}

// Exists reports whether a template with this name can be read.
func (r *Renderer) Exists(name string) bool {
	_, err := fs.Stat(r.fs, name)
	return err == nil
}

func (r *Renderer) template(name string) (*parsedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	body, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrRenderFailed, name, err)
	}

	cached = &parsedTemplate{metadata: parsed.Metadata, body: body}

	r.mu.Lock()
	r.templates[name] = cached
	r.mu.Unlock()
	return cached, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	cached, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	cached, err = template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing layout %s: %v", ErrRenderFailed, name, err)
	}

	r.mu.Lock()
	r.layouts[name] = cached
	r.mu.Unlock()
	return cached, nil
}
