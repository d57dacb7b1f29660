// Package logctx enriches slog records with card engine context. Wrap any
// slog.Handler in Handler and every record logged under a context carrying
// card or call data picks up the matching attribute groups.
package logctx

import (
	"context"
	"log/slog"
)

type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if cd, ok := ctx.Value(cardDataKey{}).(*CardData); ok {
		r.AddAttrs(slog.Group("card",
			slog.String("name", cd.Card),
			slog.String("instance", cd.Instance),
			slog.String("key", cd.Key),
		))
	}

	if od, ok := ctx.Value(callDataKey{}).(*CallData); ok {
		r.AddAttrs(slog.Group("call",
			slog.String("op", od.Operation),
			slog.String("caller", od.CallerID),
		))
	}

	return h.Handler.Handle(ctx, r)
}

type cardDataKey struct{}

type CardData struct {
	Card     string
	Instance string
	Key      string
}

func WithCardData(ctx context.Context, data *CardData) context.Context {
	return context.WithValue(ctx, cardDataKey{}, data)
}

type callDataKey struct{}

type CallData struct {
	Operation string
	CallerID  string
}

func WithCallData(ctx context.Context, data *CallData) context.Context {
	return context.WithValue(ctx, callDataKey{}, data)
}
