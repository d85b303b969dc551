package http

import "context"

type contextKey string

const recordIDContextKey contextKey = "record_id"

// ContextWithRecordID injects the record identifier resolved from the request path.
func ContextWithRecordID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, recordIDContextKey, id)
}

// RecordIDFromContext extracts a record identifier previously associated with the context.
func RecordIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(recordIDContextKey).(int64)
	return id, ok
}
