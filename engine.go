package cardframe

import (
	"log/slog"

	"github.com/cardframe/cardframe-go/cards"
	"github.com/cardframe/cardframe-go/identity"
	"github.com/cardframe/cardframe-go/statestore"
	"github.com/cardframe/cardframe-go/statestore/memory"
)

// Engine executes card renders and action dispatches against a registry and
// a state store. It is safe for concurrent use.
type Engine struct {
	registry *cards.Registry
	store    statestore.Store
	resolver identity.Resolver
	files    cards.FileEngine
	log      *slog.Logger
	env      cards.Env

	mintToken func() string
}

// EngineOption customizes engine construction.
type EngineOption func(*Engine)

// WithLogger sets the logger used for degraded-path reporting. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithConfig applies host configuration, typically from ConfigFromEnv.
func WithConfig(cfg Config) EngineOption {
	return func(e *Engine) {
		if cfg.BaseURL != "" {
			e.env.BaseURL = cfg.BaseURL
		}
		if cfg.TokenLength > 0 {
			e.resolver.TokenLength = cfg.TokenLength
		}
		if cfg.TemplateRoot != "" {
			e.files = cards.NewHTMLEngine(cfg.TemplateRoot)
		}
	}
}

// WithFileEngine sets the engine used for TemplateFile cards. Defaults to
// an HTMLEngine rooted at "templates".
func WithFileEngine(f cards.FileEngine) EngineOption {
	return func(e *Engine) { e.files = f }
}

// WithBaseURL sets the public base for share links.
func WithBaseURL(u string) EngineOption {
	return func(e *Engine) { e.env.BaseURL = u }
}

// WithTokenLength sets the digest truncation for instance ids.
func WithTokenLength(n int) EngineOption {
	return func(e *Engine) { e.resolver.TokenLength = n }
}

// New creates an Engine serving the given registry and store. A nil store
// falls back to a process-local in-memory store.
func New(registry *cards.Registry, store statestore.Store, opts ...EngineOption) *Engine {
	if store == nil {
		store = memory.New()
	}
	e := &Engine{
		registry:  registry,
		store:     store,
		files:     cards.NewHTMLEngine("templates"),
		log:       slog.Default(),
		mintToken: identity.NewInstanceToken,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the card registry the engine serves.
func (e *Engine) Registry() *cards.Registry {
	return e.registry
}

// Env returns the host environment handed to fetch and action handlers.
func (e *Engine) Env() cards.Env {
	return e.env
}
