// Package ctxutil carries request-scoped identity through context.Context
// instead of ambient process-wide state.
package ctxutil

import (
	"context"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	originKey    ctxKey = "origin"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the acting user in the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the acting user. Returns false if absent or if the
// actor has no name and role.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	if !ok || (actor.Name == "" && actor.Role == "") {
		return domain.Actor{}, false
	}
	return actor, true
}

// WithOrigin stores the network origin (remote host) in the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromCtx extracts the network origin, or "" if absent.
func OriginFromCtx(ctx context.Context) string {
	origin, _ := ctx.Value(originKey).(string)
	return origin
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID, or "" if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
