// Package toolcall derives callable-operation descriptors from cards, the
// protocol-facing contract transports expose to hosts. Each card yields one
// descriptor, each action another; a descriptor carries a name, a parameter
// schema translated from the input schema, and a handler that runs the
// engine and formats the outcome into transport-neutral content blocks.
package toolcall

import (
	"context"
	"fmt"
)

// Descriptor is one callable operation derived from a card or action.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  ParamSchema `json:"parameters"`

	// Handler executes the operation. Not part of the wire form.
	Handler Handler `json:"-"`
}

// ParamSchema is the JSON Schema form of an operation's parameters.
type ParamSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitzero"`
}

// Property is one parameter's schema.
type Property struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Call is one invocation of a descriptor's handler.
type Call struct {
	// Args are the raw call parameters.
	Args map[string]any

	// CallerID identifies the calling user when the transport knows one.
	CallerID string
}

// Handler executes one callable operation.
type Handler func(ctx context.Context, call *Call) (*Result, error)

// Result is the transport-neutral outcome of a call.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitzero"`
}

// Content is one block of a Result. Type selects the populated fields.
type Content struct {
	Type string `json:"type"`
	// For text
	Text string `json:"text,omitzero"`
	// For image (base64) and markup
	Data     string `json:"data,omitzero"`
	MimeType string `json:"mimeType,omitzero"`
}

// TextContent builds a text block.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// MarkupContent builds a markup block carrying rendered card HTML.
func MarkupContent(markup string) Content {
	return Content{Type: "markup", Data: markup, MimeType: "text/html"}
}

// ImageContent builds an image block from base64 data.
func ImageContent(b64, mimeType string) Content {
	return Content{Type: "image", Data: b64, MimeType: mimeType}
}

// ResultFromError formats an error as an IsError result, for transports
// that report operation failures in-band rather than as protocol errors.
func ResultFromError(err error) *Result {
	return &Result{
		Content: []Content{TextContent(err.Error())},
		IsError: true,
	}
}

// Errorf builds an IsError result from a format string.
func Errorf(format string, args ...any) *Result {
	return ResultFromError(fmt.Errorf(format, args...))
}
