package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	sellerIDKey  contextKey = "observability_seller_id"
	actorTypeKey contextKey = "observability_actor_type"
	actorIDKey   contextKey = "observability_actor_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithSellerID(ctx context.Context, sellerID string) context.Context {
	if ctx == nil || sellerID == "" {
		return ctx
	}
	return context.WithValue(ctx, sellerIDKey, sellerID)
}

func SellerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(sellerIDKey).(string)
	return value
}

func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	if ctx == nil {
		return ctx
	}
	if actorType != "" {
		ctx = context.WithValue(ctx, actorTypeKey, actorType)
	}
	if actorID != "" {
		ctx = context.WithValue(ctx, actorIDKey, actorID)
	}
	return ctx
}

func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	actorType, _ := ctx.Value(actorTypeKey).(string)
	actorID, _ := ctx.Value(actorIDKey).(string)
	return actorType, actorID
}
