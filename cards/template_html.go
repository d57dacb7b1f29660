package cards

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// HTMLEngine is a FileEngine backed by html/template. Compiled templates
// are cached per path; Invalidate drops entries when files change (see
// Watch).
type HTMLEngine struct {
	root string
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewHTMLEngine creates an engine resolving relative template paths under
// root. An empty root resolves against the working directory.
func NewHTMLEngine(root string) *HTMLEngine {
	return &HTMLEngine{
		root:  root,
		cache: make(map[string]*template.Template),
	}
}

// NewHTMLEngineFS creates an engine reading templates from fsys, typically
// an embed.FS so cards ship with their templates. FS-backed engines cannot
// be watched.
func NewHTMLEngineFS(fsys fs.FS) *HTMLEngine {
	return &HTMLEngine{
		fsys:  fsys,
		cache: make(map[string]*template.Template),
	}
}

func (e *HTMLEngine) Render(ctx context.Context, path string, data any) (string, error) {
	tpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", path, err)
	}
	return sb.String(), nil
}

func (e *HTMLEngine) lookup(path string) (*template.Template, error) {
	key := e.cacheKey(path)

	e.mu.RLock()
	tpl, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := e.parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	e.mu.Lock()
	e.cache[key] = tpl
	e.mu.Unlock()
	return tpl, nil
}

func (e *HTMLEngine) parse(path string) (*template.Template, error) {
	if e.fsys != nil {
		return template.ParseFS(e.fsys, path)
	}
	full := path
	if e.root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(e.root, path)
	}
	return template.ParseFiles(full)
}

// Invalidate drops the cached compilation for path, forcing a re-parse on
// the next render. Unknown paths are ignored.
func (e *HTMLEngine) Invalidate(path string) {
	key := e.cacheKey(path)
	e.mu.Lock()
	delete(e.cache, key)
	e.mu.Unlock()
}

func (e *HTMLEngine) cacheKey(path string) string {
	return filepath.Clean(path)
}

// Root returns the directory templates resolve against.
func (e *HTMLEngine) Root() string { return e.root }

// Compile-time interface check
var _ FileEngine = (*HTMLEngine)(nil)
