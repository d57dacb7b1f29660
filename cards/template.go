package cards

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
)

// FileEngine compiles and executes file templates on behalf of TemplateFile
// cards. The implementation decides the template syntax and caching policy.
type FileEngine interface {
	Render(ctx context.Context, path string, data any) (string, error)
}

// Template produces a card's markup from the fetched data. The set of
// strategies is closed:
//
//   - TemplateFunc renders in process from the data value.
//   - TemplateFile names a file compiled by the host's FileEngine.
//   - Templ wraps an a-h/templ component constructor.
type Template interface {
	render(ctx context.Context, data any, files FileEngine) (string, error)
}

// TemplateFunc renders markup directly from the data value.
type TemplateFunc func(data any) (string, error)

func (f TemplateFunc) render(ctx context.Context, data any, files FileEngine) (string, error) {
	return f(data)
}

// TemplateFile names a template file rendered by the host's FileEngine.
// Paths are resolved by the engine, typically relative to its root.
type TemplateFile struct {
	Path string
}

func (t TemplateFile) render(ctx context.Context, data any, files FileEngine) (string, error) {
	if files == nil {
		return "", fmt.Errorf("template file %q: no file engine configured", t.Path)
	}
	return files.Render(ctx, t.Path, data)
}

// Templ adapts a templ component constructor into a Template.
func Templ(build func(data any) templ.Component) Template {
	return templTemplate{build: build}
}

type templTemplate struct {
	build func(data any) templ.Component
}

func (t templTemplate) render(ctx context.Context, data any, files FileEngine) (string, error) {
	var buf bytes.Buffer
	if err := t.build(data).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTemplate executes tpl against data. files supplies the engine for
// TemplateFile cards and may be nil otherwise.
func RenderTemplate(ctx context.Context, tpl Template, data any, files FileEngine) (string, error) {
	return tpl.render(ctx, data, files)
}
