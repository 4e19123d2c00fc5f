// internal/matching/guard.go
package matching

import "context"

// The guard suppresses nested matching passes: a pass writes back to
// match_percentage fields, and those saves must not trigger another pass.
// The flag lives on the context so it is scoped to one call chain instead
// of the whole process.
type passKey struct{ kind RecordKind }

func withPassActive(ctx context.Context, kind RecordKind) context.Context {
	return context.WithValue(ctx, passKey{kind}, true)
}

func passActive(ctx context.Context, kind RecordKind) bool {
	active, _ := ctx.Value(passKey{kind}).(bool)
	return active
}
