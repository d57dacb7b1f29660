package cardframe

import "fmt"

// UnknownOperationError reports a call addressing a card or action that is
// not registered. Rejected before any side effect.
type UnknownOperationError struct {
	Kind string // "card" or "action"
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Name)
}

// DataFetchError wraps a failure raised by a card's data fetch. The
// rendering pipeline recovers it into an error presentation; it surfaces on
// RenderResult.FetchErr rather than as a call failure.
type DataFetchError struct {
	Card string
	Err  error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("card %s: data fetch failed: %v", e.Card, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// TemplateError reports a template that failed to load, compile or execute.
// Template failures are authoring defects and propagate to the caller
// unrecovered.
type TemplateError struct {
	Card string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("card %s: template failed: %v", e.Card, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
