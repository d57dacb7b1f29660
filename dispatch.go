package cardframe

import (
	"context"
	"fmt"

	"github.com/cardframe/cardframe-go/cards"
	"github.com/cardframe/cardframe-go/identity"
	"github.com/cardframe/cardframe-go/internal/logctx"
	"github.com/cardframe/cardframe-go/statestore"
)

// ActionOutcome is the result of one action dispatch.
type ActionOutcome struct {
	// Card is the owning card's name.
	Card string

	// Action is the dispatched action's name.
	Action string

	// Instance identifies the card instance the action addressed.
	Instance identity.Instance

	// State is the instance document after the dispatch.
	State statestore.Document

	// Message is the handler's human-readable confirmation.
	Message string

	// Output is the handler's structured payload.
	Output any
}

// DispatchAction executes a named action against the card instance
// addressed by params.
//
// Params are partitioned: keys declared on the card's input schema resolve
// the owning instance exactly as a render would, so the action lands on the
// same stored document; the remaining keys resolve against the action's own
// schema. Returned state is shallow-merged over the stored document and
// persisted. Handler failures return an error; actions never render.
//
// Unlike renders, dispatch never mints an identifying input for
// UniqueInstance cards: an action addresses an existing instance or
// nothing.
func (e *Engine) DispatchAction(ctx context.Context, cardName, actionName string, params map[string]any, callerID string) (*ActionOutcome, error) {
	card, ok := e.registry.Lookup(cardName)
	if !ok {
		return nil, &UnknownOperationError{Kind: "card", Name: cardName}
	}
	action, ok := card.Actions[actionName]
	if actionName == "" || !ok {
		return nil, &UnknownOperationError{Kind: "action", Name: cardName + "." + actionName}
	}

	cardRaw := make(map[string]any)
	actionRaw := make(map[string]any)
	for k, v := range params {
		if _, declared := card.Inputs[k]; declared {
			cardRaw[k] = v
		} else {
			actionRaw[k] = v
		}
	}

	cardInputs, err := card.Inputs.Resolve(cardRaw)
	if err != nil {
		return nil, err
	}
	actionInputs, err := action.Inputs.Resolve(actionRaw)
	if err != nil {
		return nil, err
	}

	inst := e.resolver.Resolve(card, cardInputs, callerID)
	ctx = logctx.WithCardData(ctx, &logctx.CardData{Card: card.Name, Instance: inst.ID, Key: inst.Key})

	state := e.loadState(ctx, inst.Key)

	result, err := e.invokeAction(ctx, action, cardInputs, actionInputs, state)
	if err != nil {
		return nil, fmt.Errorf("card %s: action %s: %w", card.Name, actionName, err)
	}

	newState := state
	if result.State != nil {
		newState = statestore.Merge(state, result.State)
		e.persistState(ctx, inst.Key, newState)
	}

	return &ActionOutcome{
		Card:     card.Name,
		Action:   actionName,
		Instance: inst,
		State:    newState,
		Message:  result.Message,
		Output:   result.Output,
	}, nil
}

// invokeAction runs the handler, converting panics into errors so a
// misbehaving card cannot take down the caller.
func (e *Engine) invokeAction(ctx context.Context, action cards.Action, cardInputs, actionInputs map[string]any, state statestore.Document) (res *cards.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	res, err = action.Handle(ctx, &cards.ActionRequest{
		CardInputs:   cardInputs,
		ActionInputs: actionInputs,
		State:        state,
		Env:          e.env,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &cards.ActionResult{}
	}
	return res, nil
}
