// Package cardframe is a runtime engine for cards: self-describing
// interactive content units that pair a typed input schema, a server-side
// data fetch, optional actions and a rendering template. Hosts register
// cards, hand the engine a state store, and expose the derived callable
// operations over whatever transport they speak.
//
//	registry := cards.NewRegistry()
//	registry.MustRegister(weatherCard)
//
//	engine := cardframe.New(registry, memory.New(),
//		cardframe.WithBaseURL("https://cards.example.com"),
//	)
//
//	res, err := engine.RenderCard(ctx, "weather", map[string]any{"city": "Paris"}, "")
//	if err != nil {
//		// ValidationError, TemplateError or UnknownOperationError.
//	}
//	fmt.Println(res.Markup)
//
// Identity is deterministic: equal resolved inputs address the same
// instance, so a follow-up action lands on the state an earlier render
// created without the caller passing tokens around. Concurrent mutations of
// one instance follow last-write-wins; cards that need safe concurrent
// counters should shape their state so merges commute.
//
// The engine degrades rather than fails: a data-fetch error becomes an
// in-band error card, a state store outage turns the call stateless with a
// logged warning, and only template errors (authoring defects) and invalid
// calls surface as Go errors.
//
// See the cards package for authoring, statestore for persistence
// backends, toolcall for deriving transport descriptors, and metrics for
// usage counting.
package cardframe
