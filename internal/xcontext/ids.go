// Package xcontext carries request-scoped identifiers and shutdown state.
package xcontext

import "context"

type idKey uint8

const (
	requestIDKey idKey = iota
	sessionIDKey
	deviceIDKey
)

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) (string, bool) { return get(ctx, requestIDKey) }

// SetSessionID records the client's session, which spans many requests.
func SetSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func GetSessionID(ctx context.Context) (string, bool) { return get(ctx, sessionIDKey) }

func SetDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDKey, id)
}

func GetDeviceID(ctx context.Context) (string, bool) { return get(ctx, deviceIDKey) }

// get treats an empty id the same as a missing one.
func get(ctx context.Context, key idKey) (string, bool) {
	id, ok := ctx.Value(key).(string)
	return id, ok && id != ""
}
