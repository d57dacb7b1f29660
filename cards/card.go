package cards

import (
	"context"
	"fmt"

	"github.com/cardframe/cardframe-go/statestore"
)

// Env carries host environment settings into fetch and action handlers.
type Env struct {
	// BaseURL is the public base used to build share links.
	BaseURL string
}

// FetchRequest carries everything a card's data fetch may consult.
type FetchRequest struct {
	// Inputs is the resolved input set: caller values plus schema defaults.
	Inputs map[string]any

	// State is the stored document for this instance, or nil when no state
	// exists or the store is unavailable.
	State statestore.Document

	// Env is the host environment.
	Env Env
}

// FetchResult is what a data fetch hands to the rendering step.
type FetchResult struct {
	// Data is the value the template renders.
	Data any

	// State, when non-nil, is merged shallowly over the stored document and
	// persisted after the render.
	State statestore.Document

	// Text, when non-empty, becomes the text summary for hosts that cannot
	// display markup.
	Text string
}

// FetchFunc loads the data a card renders. A fetch error does not fail the
// render; the pipeline recovers it into an error presentation.
type FetchFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// ActionRequest carries one action invocation.
type ActionRequest struct {
	// CardInputs are the resolved inputs declared by the owning card. They
	// determine which instance the action addresses.
	CardInputs map[string]any

	// ActionInputs are the remaining call parameters, resolved against the
	// action's own schema.
	ActionInputs map[string]any

	// State is the stored document for the addressed instance.
	State statestore.Document

	// Env is the host environment.
	Env Env
}

// ActionResult is what an action handler returns.
type ActionResult struct {
	// State, when non-nil, is merged shallowly over the stored document and
	// persisted.
	State statestore.Document

	// Message is a human-readable confirmation passed back to the caller.
	Message string

	// Output is optional structured data passed back to the caller.
	Output any
}

// ActionFunc executes a state mutation against one card instance.
type ActionFunc func(ctx context.Context, req *ActionRequest) (*ActionResult, error)

// Action is a named operation on a card.
type Action struct {
	// Description is surfaced to hosts in the derived call descriptor.
	Description string

	// Inputs declares the action's own parameters, beyond the inputs of the
	// owning card.
	Inputs InputSchema

	// Handle executes the action.
	Handle ActionFunc
}

// StateKeyFunc derives the storage key segment for an instance from its
// resolved inputs. callerID is empty when the host did not identify the
// caller. The returned segment should end with ":<distinguishing value>" so
// the part after the final colon can serve as the public instance id.
type StateKeyFunc func(inputs map[string]any, callerID string) string

// Card pairs an input schema, a data fetch, optional actions and a template
// into one self-describing unit.
type Card struct {
	// Name identifies the card. Names must be unique within a registry and
	// are embedded in storage keys, so keep them short and stable.
	Name string

	// Description is surfaced to hosts in the derived call descriptor.
	Description string

	// Inputs declares the card's parameters.
	Inputs InputSchema

	// Fetch loads the render data. Required.
	Fetch FetchFunc

	// Actions maps action names to their definitions.
	Actions map[string]Action

	// Template produces the card's markup. Required.
	Template Template

	// StateKey, when set, replaces the hashed input digest as the storage
	// key segment.
	StateKey StateKeyFunc

	// UniqueInstance cards mint a fresh identifying input on every render
	// that omits one, so repeated creations never share state.
	UniqueInstance bool

	// InstanceInput names the identifying input consulted by
	// UniqueInstance. Defaults to "id".
	InstanceInput string

	// PerCaller folds the caller id into the storage key so each caller
	// sees an independent instance.
	PerCaller bool

	// Shareable cards get a share link attached to their rendered output.
	Shareable bool
}

// InstanceInputName returns the identifying input name for UniqueInstance
// cards.
func (c *Card) InstanceInputName() string {
	if c.InstanceInput != "" {
		return c.InstanceInput
	}
	return "id"
}

// Validate reports structural problems that would make the card unusable.
func (c *Card) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("card name must not be empty")
	}
	if c.Fetch == nil {
		return fmt.Errorf("card %q: fetch function is required", c.Name)
	}
	if c.Template == nil {
		return fmt.Errorf("card %q: template is required", c.Name)
	}
	if c.UniqueInstance {
		// Actions route parameters by schema membership, so the identifying
		// input must be declared or actions could never address an instance.
		if _, ok := c.Inputs[c.InstanceInputName()]; !ok && len(c.Actions) > 0 {
			return fmt.Errorf("card %q: instance input %q is not declared in the input schema", c.Name, c.InstanceInputName())
		}
	}
	for name, action := range c.Actions {
		if name == "" {
			return fmt.Errorf("card %q: action name must not be empty", c.Name)
		}
		if action.Handle == nil {
			return fmt.Errorf("card %q: action %q has no handler", c.Name, name)
		}
	}
	return nil
}
