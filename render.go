package cardframe

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cardframe/cardframe-go/cards"
	"github.com/cardframe/cardframe-go/identity"
	"github.com/cardframe/cardframe-go/internal/logctx"
	"github.com/cardframe/cardframe-go/statestore"
)

// RenderResult is the outcome of one card render.
type RenderResult struct {
	// Card is the rendered card's name.
	Card string

	// Instance identifies the rendered instance.
	Instance identity.Instance

	// Markup is the wrapped presentation markup.
	Markup string

	// State is the instance document after the render: the stored document
	// overlaid with whatever the fetch returned.
	State statestore.Document

	// TextSummary is the text-only representation for hosts that cannot
	// display markup.
	TextSummary string

	// Data is the value the template rendered.
	Data any

	// FetchErr is the recovered data-fetch failure when the result is an
	// error presentation, nil otherwise.
	FetchErr error
}

// Failed reports whether the result is an error presentation recovered from
// a data-fetch failure.
func (r *RenderResult) Failed() bool {
	return r.FetchErr != nil
}

// RenderCard renders the card instance addressed by raw inputs.
//
// Inputs resolve against the card's schema, identity derives from the
// resolved set, state loads from the store, the fetch runs, returned state
// merges over the stored document and persists, and the template renders
// the fetched data into wrapped markup.
//
// A data-fetch failure does not fail the call: it is recovered into an
// error presentation with TextSummary "Error: <message>" and reported via
// RenderResult.FetchErr. Template failures return *TemplateError. Store
// failures are logged and the render proceeds stateless.
func (e *Engine) RenderCard(ctx context.Context, cardName string, raw map[string]any, callerID string) (*RenderResult, error) {
	card, ok := e.registry.Lookup(cardName)
	if !ok {
		return nil, &UnknownOperationError{Kind: "card", Name: cardName}
	}

	inputs, err := card.Inputs.Resolve(raw)
	if err != nil {
		return nil, err
	}
	e.ensureInstanceInput(card, inputs)

	inst := e.resolver.Resolve(card, inputs, callerID)
	ctx = logctx.WithCardData(ctx, &logctx.CardData{Card: card.Name, Instance: inst.ID, Key: inst.Key})

	state := e.loadState(ctx, inst.Key)

	return e.render(ctx, card, inst, inputs, state)
}

func (e *Engine) render(ctx context.Context, card *cards.Card, inst identity.Instance, inputs map[string]any, state statestore.Document) (*RenderResult, error) {
	res := &RenderResult{Card: card.Name, Instance: inst, State: state}

	fetched, fetchErr := e.fetch(ctx, card, inputs, state)
	if fetchErr != nil {
		res.FetchErr = &DataFetchError{Card: card.Name, Err: fetchErr}
		res.TextSummary = "Error: " + fetchErr.Error()
		res.Markup = wrapMarkup(card.Name, "", errorMarkup(fetchErr))
		e.log.WarnContext(ctx, "data fetch failed, rendering error card", slog.String("err", fetchErr.Error()))
		return res, nil
	}

	if fetched.State != nil {
		res.State = statestore.Merge(state, fetched.State)
		e.persistState(ctx, inst.Key, res.State)
	}
	res.Data = fetched.Data
	res.TextSummary = fetched.Text

	markup, err := cards.RenderTemplate(ctx, card.Template, fetched.Data, e.files)
	if err != nil {
		return nil, &TemplateError{Card: card.Name, Err: err}
	}

	var token string
	if card.Shareable {
		token = inst.ID
		markup = shareAffordance(e.env.BaseURL, card.Name, token) + markup
	}
	res.Markup = wrapMarkup(card.Name, token, markup)
	return res, nil
}

// fetch invokes the card's data fetch, converting panics into errors so a
// misbehaving card cannot take down the caller.
func (e *Engine) fetch(ctx context.Context, card *cards.Card, inputs map[string]any, state statestore.Document) (res *cards.FetchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	res, err = card.Fetch(ctx, &cards.FetchRequest{Inputs: inputs, State: state, Env: e.env})
	if err == nil && res == nil {
		res = &cards.FetchResult{}
	}
	return res, err
}

// ensureInstanceInput mints the identifying input for UniqueInstance cards
// when the caller omitted it, so otherwise-identical calls get distinct
// instances.
func (e *Engine) ensureInstanceInput(card *cards.Card, inputs map[string]any) {
	if !card.UniqueInstance {
		return
	}
	name := card.InstanceInputName()
	if v, ok := inputs[name]; ok && v != nil && v != "" {
		return
	}
	inputs[name] = e.mintToken()
}

func (e *Engine) loadState(ctx context.Context, key string) statestore.Document {
	state, err := e.store.Get(ctx, key)
	if err != nil {
		// Degrade to stateless rather than failing the visible request.
		e.log.WarnContext(ctx, "state load failed, continuing stateless", slog.String("err", err.Error()))
		return nil
	}
	return state
}

// persistState writes under a detached context: a caller disconnecting
// mid-request must not tear a write that follows a committed mutation.
func (e *Engine) persistState(ctx context.Context, key string, doc statestore.Document) {
	if err := e.store.Set(context.WithoutCancel(ctx), key, doc); err != nil {
		e.log.WarnContext(ctx, "state write failed, result not persisted", slog.String("err", err.Error()))
	}
}

func wrapMarkup(cardName, shareToken, inner string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="card" data-card="`)
	sb.WriteString(html.EscapeString(cardName))
	sb.WriteString(`"`)
	if shareToken != "" {
		sb.WriteString(` data-share-token="`)
		sb.WriteString(html.EscapeString(shareToken))
		sb.WriteString(`"`)
	}
	sb.WriteString(`>`)
	sb.WriteString(inner)
	sb.WriteString(`</div>`)
	return sb.String()
}

func errorMarkup(err error) string {
	return `<div class="card-error"><p class="card-error-message">Error: ` +
		html.EscapeString(err.Error()) + `</p></div>`
}

func shareAffordance(baseURL, cardName, token string) string {
	href := strings.TrimRight(baseURL, "/") + "/c/" + url.PathEscape(cardName) + "/" + url.PathEscape(token)
	return `<div class="card-share"><a href="` + html.EscapeString(href) + `" data-share-link>Share</a></div>`
}

// ShareLink returns the public link for a shareable card instance, the same
// link the rendered share affordance points at.
func (e *Engine) ShareLink(cardName, instanceID string) string {
	return strings.TrimRight(e.env.BaseURL, "/") + "/c/" + url.PathEscape(cardName) + "/" + url.PathEscape(instanceID)
}
