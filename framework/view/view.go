// Package view holds the narrow rendering surface the runtime consumes.
// Controllers call a Renderer with a template identifier and a data bag;
// the dispatch core itself only ever touches the interface.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// Renderer turns a template identifier plus data bag into markup.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// TemplateRenderer is an html/template backed Renderer loading templates
// from a directory on demand.
type TemplateRenderer struct {
	dir string
	ext string
}

// NewTemplateRenderer creates a renderer rooted at dir.
//
//	r := view.NewTemplateRenderer("./views", ".html")
func NewTemplateRenderer(dir, ext string) *TemplateRenderer {
	return &TemplateRenderer{dir: dir, ext: ext}
}

// Render parses and executes the named template.
func (r *TemplateRenderer) Render(name string, data any) (string, error) {
	path := filepath.Join(r.dir, name+r.ext)
	t, err := template.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("view: parsing %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("view: rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(name string, data any) (string, error)

func (f RendererFunc) Render(name string, data any) (string, error) {
	return f(name, data)
}
