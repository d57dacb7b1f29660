// Package cards defines the authoring surface of the card engine: the Card
// type, input schemas, templates, and the registry hosts expose cards from.
//
// A card pairs a typed input schema, a server-side data fetch, optional
// actions and a rendering template into one self-describing unit:
//
//	weather := &cards.Card{
//		Name:        "weather",
//		Description: "Current conditions for a city",
//		Inputs: cards.InputSchema{
//			"city": {Type: cards.TypeString, Description: "City to look up", Required: true},
//			"unit": {Type: cards.TypeString, Default: "celsius", Enum: []any{"celsius", "fahrenheit"}},
//		},
//		Fetch: func(ctx context.Context, req *cards.FetchRequest) (*cards.FetchResult, error) {
//			city, _ := req.Inputs["city"].(string)
//			return &cards.FetchResult{Data: lookupConditions(city)}, nil
//		},
//		Template: cards.TemplateFunc(func(data any) (string, error) {
//			return renderConditions(data), nil
//		}),
//	}
//
//	registry := cards.NewRegistry()
//	if err := registry.Register(weather); err != nil {
//		...
//	}
//
// Input schemas can also be derived from struct types with SchemaFor, which
// keeps the schema and the fetch function's decoding in one place.
//
// Templates come in three closed variants: TemplateFunc for in-process
// rendering, TemplateFile for files compiled by a FileEngine (HTMLEngine is
// the html/template implementation, with optional live reloading via
// Watch), and Templ for a-h/templ components.
//
// The registry is safe for concurrent use and signals registration changes
// through Subscribe, so hosts can re-derive call descriptors when the card
// set changes at runtime.
package cards
