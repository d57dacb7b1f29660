package toolcall

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	cardframe "github.com/cardframe/cardframe-go"
	"github.com/cardframe/cardframe-go/cards"
	"github.com/cardframe/cardframe-go/statestore"
	"github.com/cardframe/cardframe-go/statestore/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pollCard() *cards.Card {
	return &cards.Card{
		Name:        "poll",
		Description: "A running tally of votes on a topic",
		Inputs: cards.InputSchema{
			"topic": {Type: cards.TypeString, Description: "What the vote is about", Required: true},
		},
		Fetch: func(ctx context.Context, req *cards.FetchRequest) (*cards.FetchResult, error) {
			return &cards.FetchResult{
				Data: map[string]any{"topic": req.Inputs["topic"], "votes": req.State["votes"]},
				Text: fmt.Sprintf("Poll about %v", req.Inputs["topic"]),
			}, nil
		},
		Actions: map[string]cards.Action{
			"vote": {
				Description: "Cast a vote",
				Inputs: cards.InputSchema{
					"choice": {Type: cards.TypeString, Description: "Selected option", Required: true},
				},
				Handle: func(ctx context.Context, req *cards.ActionRequest) (*cards.ActionResult, error) {
					choice, _ := req.ActionInputs["choice"].(string)
					return &cards.ActionResult{
						State:   statestore.Document{"last": choice},
						Message: "vote recorded",
						Output:  map[string]any{"choice": choice},
					}, nil
				},
			},
		},
		Template: cards.TemplateFunc(func(data any) (string, error) {
			return fmt.Sprintf("<ul>%v</ul>", data), nil
		}),
	}
}

func newTestBinder(t *testing.T, opts ...BinderOption) (*Binder, *cards.Registry) {
	t.Helper()
	reg := cards.NewRegistry()
	reg.MustRegister(pollCard())
	eng := cardframe.New(reg, memory.New(), cardframe.WithLogger(discardLogger()))
	opts = append([]BinderOption{WithLogger(discardLogger())}, opts...)
	return NewBinder(eng, opts...), reg
}

func TestBindDerivesCardAndActionDescriptors(t *testing.T) {
	b, reg := newTestBinder(t)
	card, _ := reg.Lookup("poll")

	descs := b.Bind(card)
	if len(descs) != 2 {
		t.Fatalf("descriptor count = %d, want 2", len(descs))
	}

	if descs[0].Name != "poll" || descs[1].Name != "poll_vote" {
		t.Fatalf("descriptor names = %q, %q", descs[0].Name, descs[1].Name)
	}
	if descs[0].Description != "A running tally of votes on a topic" {
		t.Fatalf("card description = %q", descs[0].Description)
	}
	if descs[1].Description != "Cast a vote" {
		t.Fatalf("action description = %q", descs[1].Description)
	}
	for _, d := range descs {
		if d.Handler == nil {
			t.Fatalf("descriptor %s has no handler", d.Name)
		}
	}
}

func TestBindTranslatesSchemas(t *testing.T) {
	b, reg := newTestBinder(t)
	card, _ := reg.Lookup("poll")

	descs := b.Bind(card)

	params := descs[0].Parameters
	if params.Type != "object" {
		t.Fatalf("schema type = %q", params.Type)
	}
	topic, ok := params.Properties["topic"]
	if !ok {
		t.Fatalf("schema missing topic: %#v", params.Properties)
	}
	if topic.Type != "string" || topic.Description != "What the vote is about" {
		t.Fatalf("topic property = %#v", topic)
	}
	if len(params.Required) != 1 || params.Required[0] != "topic" {
		t.Fatalf("required = %v", params.Required)
	}

	// The action schema merges card and action inputs into one flat set.
	merged := descs[1].Parameters
	if _, ok := merged.Properties["topic"]; !ok {
		t.Fatalf("merged schema missing card input: %#v", merged.Properties)
	}
	if _, ok := merged.Properties["choice"]; !ok {
		t.Fatalf("merged schema missing action input: %#v", merged.Properties)
	}
	if len(merged.Required) != 2 {
		t.Fatalf("merged required = %v", merged.Required)
	}
}

func TestSchemaFromInputsPreservesEnumAndDefault(t *testing.T) {
	schema := SchemaFromInputs(cards.InputSchema{
		"unit": {
			Type:        cards.TypeString,
			Description: "Temperature unit",
			Enum:        []any{"celsius", "fahrenheit"},
			Default:     "celsius",
		},
	})

	unit := schema.Properties["unit"]
	if len(unit.Enum) != 2 {
		t.Fatalf("enum = %#v", unit.Enum)
	}
	if unit.Default != "celsius" {
		t.Fatalf("default = %#v", unit.Default)
	}
	if len(schema.Required) != 0 {
		t.Fatalf("defaulted field advertised required: %v", schema.Required)
	}
}

func TestRenderHandlerProducesContent(t *testing.T) {
	b, _ := newTestBinder(t)
	descs := b.BindAll(b.engine.Registry())

	var render Handler
	for _, d := range descs {
		if d.Name == "poll" {
			render = d.Handler
		}
	}

	res, err := render(context.Background(), &Call{Args: map[string]any{"topic": "lang"}})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected IsError")
	}
	if len(res.Content) != 2 {
		t.Fatalf("content blocks = %d, want text+markup", len(res.Content))
	}
	if res.Content[0].Type != "text" || !strings.Contains(res.Content[0].Text, "Poll about lang") {
		t.Fatalf("text block = %#v", res.Content[0])
	}
	if res.Content[1].Type != "markup" || !strings.Contains(res.Content[1].Data, `data-card="poll"`) {
		t.Fatalf("markup block = %#v", res.Content[1])
	}

	if got := b.Usage().Count("poll"); got != 1 {
		t.Fatalf("usage count = %d, want 1", got)
	}
}

func TestActionHandlerDispatches(t *testing.T) {
	b, _ := newTestBinder(t)
	descs := b.BindAll(b.engine.Registry())

	var vote Handler
	for _, d := range descs {
		if d.Name == "poll_vote" {
			vote = d.Handler
		}
	}

	res, err := vote(context.Background(), &Call{Args: map[string]any{"topic": "lang", "choice": "go"}})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Content[0].Text != "vote recorded" {
		t.Fatalf("message block = %#v", res.Content[0])
	}
	if len(res.Content) != 2 || !strings.Contains(res.Content[1].Text, `"choice":"go"`) {
		t.Fatalf("output block = %#v", res.Content)
	}

	if got := b.Usage().Count("poll_vote"); got != 1 {
		t.Fatalf("usage count = %d, want 1", got)
	}
}

func TestHandlerReturnsTypedErrors(t *testing.T) {
	b, _ := newTestBinder(t)
	descs := b.Bind(mustLookup(t, b, "poll"))

	_, err := descs[0].Handler(context.Background(), &Call{Args: map[string]any{}})
	var verr *cards.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %T: %v", err, err)
	}

	res := ResultFromError(err)
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	if !strings.Contains(res.Content[0].Text, "topic") {
		t.Fatalf("error text = %q", res.Content[0].Text)
	}
}

type fakeImageRenderer struct {
	png []byte
	err error
}

func (f fakeImageRenderer) RenderPNG(ctx context.Context, markup string) ([]byte, error) {
	return f.png, f.err
}

func TestRenderHandlerWithImageRenderer(t *testing.T) {
	b, _ := newTestBinder(t, WithImageRenderer(fakeImageRenderer{png: []byte{1, 2, 3}}))
	descs := b.Bind(mustLookup(t, b, "poll"))

	res, err := descs[0].Handler(context.Background(), &Call{Args: map[string]any{"topic": "lang"}})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) != 3 {
		t.Fatalf("content blocks = %d, want text+image+markup", len(res.Content))
	}
	img := res.Content[1]
	if img.Type != "image" || img.MimeType != "image/png" {
		t.Fatalf("image block = %#v", img)
	}
	if img.Data != base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) {
		t.Fatalf("image data = %q", img.Data)
	}
}

func TestRenderHandlerImageFailureDegrades(t *testing.T) {
	b, _ := newTestBinder(t, WithImageRenderer(fakeImageRenderer{err: errors.New("browser crashed")}))
	descs := b.Bind(mustLookup(t, b, "poll"))

	res, err := descs[0].Handler(context.Background(), &Call{Args: map[string]any{"topic": "lang"}})
	if err != nil {
		t.Fatalf("image failure must not fail the call: %v", err)
	}
	for _, c := range res.Content {
		if c.Type == "image" {
			t.Fatalf("unexpected image block after renderer failure: %#v", c)
		}
	}
}

func mustLookup(t *testing.T, b *Binder, name string) *cards.Card {
	t.Helper()
	card, ok := b.engine.Registry().Lookup(name)
	if !ok {
		t.Fatalf("card %q not registered", name)
	}
	return card
}
