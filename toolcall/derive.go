package toolcall

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	cardframe "github.com/cardframe/cardframe-go"
	"github.com/cardframe/cardframe-go/cards"
	"github.com/cardframe/cardframe-go/internal/logctx"
	"github.com/cardframe/cardframe-go/metrics"
)

// Binder derives descriptors bound to one engine.
type Binder struct {
	engine *cardframe.Engine
	usage  metrics.Usage
	image  ImageRenderer
	log    *slog.Logger
}

// BinderOption customizes binder construction.
type BinderOption func(*Binder)

// WithUsage sets the counter recording one increment per invocation.
// Defaults to an in-process metrics.Memory.
func WithUsage(u metrics.Usage) BinderOption {
	return func(b *Binder) { b.usage = u }
}

// WithImageRenderer enables best-effort image rendering of card markup.
func WithImageRenderer(r ImageRenderer) BinderOption {
	return func(b *Binder) { b.image = r }
}

// WithLogger sets the logger for degraded-path reporting. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) BinderOption {
	return func(b *Binder) { b.log = l }
}

func NewBinder(engine *cardframe.Engine, opts ...BinderOption) *Binder {
	b := &Binder{
		engine: engine,
		usage:  metrics.NewMemory(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Usage returns the binder's usage counter.
func (b *Binder) Usage() metrics.Usage {
	return b.usage
}

// Bind derives the descriptors for one card: the card's own render
// operation plus one per action, action names sorted.
func (b *Binder) Bind(card *cards.Card) []Descriptor {
	out := []Descriptor{{
		Name:        card.Name,
		Description: card.Description,
		Parameters:  SchemaFromInputs(card.Inputs),
		Handler:     b.renderHandler(card),
	}}

	names := make([]string, 0, len(card.Actions))
	for name := range card.Actions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		action := card.Actions[name]
		out = append(out, Descriptor{
			Name:        ActionName(card.Name, name),
			Description: actionDescription(card, name, action),
			Parameters:  mergedSchema(card.Inputs, action.Inputs),
			Handler:     b.actionHandler(card, name),
		})
	}
	return out
}

// BindAll derives descriptors for every card in the registry, sorted by
// descriptor name.
func (b *Binder) BindAll(reg *cards.Registry) []Descriptor {
	var out []Descriptor
	for _, card := range reg.Cards() {
		out = append(out, b.Bind(card)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActionName is the descriptor name of an action: "<card>_<action>",
// underscore-joined to stay within conservative transport name rules.
func ActionName(cardName, actionName string) string {
	return cardName + "_" + actionName
}

func actionDescription(card *cards.Card, name string, action cards.Action) string {
	if action.Description != "" {
		return action.Description
	}
	return fmt.Sprintf("Run the %s action of the %s card", name, card.Name)
}

// SchemaFromInputs translates an input schema into its wire form,
// preserving types, descriptions, enums and defaults.
func SchemaFromInputs(s cards.InputSchema) ParamSchema {
	out := ParamSchema{Type: "object"}
	if len(s) > 0 {
		out.Properties = make(map[string]Property, len(s))
		for name, f := range s {
			out.Properties[name] = Property{
				Type:        f.Type,
				Description: f.Description,
				Enum:        append([]any(nil), f.Enum...),
				Default:     f.Default,
			}
		}
	}
	out.Required = s.RequiredFields()
	return out
}

// mergedSchema presents card and action inputs as one flat parameter set,
// the same shape the dispatcher partitions on arrival. Action fields win
// name clashes.
func mergedSchema(cardInputs, actionInputs cards.InputSchema) ParamSchema {
	merged := make(cards.InputSchema, len(cardInputs)+len(actionInputs))
	for k, v := range cardInputs {
		merged[k] = v
	}
	for k, v := range actionInputs {
		merged[k] = v
	}
	return SchemaFromInputs(merged)
}

func (b *Binder) renderHandler(card *cards.Card) Handler {
	name := card.Name
	return func(ctx context.Context, call *Call) (*Result, error) {
		b.usage.Record(name)
		ctx = logctx.WithCallData(ctx, &logctx.CallData{Operation: name, CallerID: call.CallerID})

		res, err := b.engine.RenderCard(ctx, name, call.Args, call.CallerID)
		if err != nil {
			return nil, err
		}

		summary := res.TextSummary
		if summary == "" {
			summary = fmt.Sprintf("Rendered %s card (instance %s)", res.Card, res.Instance.ID)
		}
		content := []Content{TextContent(summary)}
		if img := b.renderImage(ctx, res.Markup); img != nil {
			content = append(content, *img)
		}
		content = append(content, MarkupContent(res.Markup))
		return &Result{Content: content}, nil
	}
}

func (b *Binder) actionHandler(card *cards.Card, actionName string) Handler {
	op := ActionName(card.Name, actionName)
	return func(ctx context.Context, call *Call) (*Result, error) {
		b.usage.Record(op)
		ctx = logctx.WithCallData(ctx, &logctx.CallData{Operation: op, CallerID: call.CallerID})

		outcome, err := b.engine.DispatchAction(ctx, card.Name, actionName, call.Args, call.CallerID)
		if err != nil {
			return nil, err
		}

		message := outcome.Message
		if message == "" {
			message = fmt.Sprintf("Action %s completed", op)
		}
		content := []Content{TextContent(message)}
		if outcome.Output != nil {
			raw, err := json.Marshal(outcome.Output)
			if err != nil {
				return nil, fmt.Errorf("encode action output: %w", err)
			}
			content = append(content, Content{Type: "text", Text: string(raw), MimeType: "application/json"})
		}
		return &Result{Content: content}, nil
	}
}

// renderImage is best-effort: failures log and degrade to markup-only
// output rather than failing the call.
func (b *Binder) renderImage(ctx context.Context, markup string) *Content {
	if b.image == nil {
		return nil
	}
	png, err := b.image.RenderPNG(ctx, markup)
	if err != nil {
		b.log.WarnContext(ctx, "image render failed, continuing without image", slog.String("err", err.Error()))
		return nil
	}
	c := ImageContent(base64.StdEncoding.EncodeToString(png), "image/png")
	return &c
}
