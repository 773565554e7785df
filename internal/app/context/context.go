// Package appctx binds a scoped handle to a logical unit of work.
//
// A Provider holds an ambient handle (typically the process-wide database
// pool) and lets callers bind a different handle (typically a transaction)
// for the duration of a function call. The binding travels in the
// context.Context passed to that function, so every call made with the
// derived context observes it while sibling requests do not:
//
//	p := appctx.NewProvider(db)
//
//	err := p.RunWith(ctx, tx, func(ctx context.Context) error {
//		conn := p.Get(ctx) // tx
//		return repo.Save(ctx, todo)
//	})
//
//	p.Get(ctx) // db again
//
// The caller's context is never mutated. Once RunWith returns, whether with
// a result, an error or a panic, the previous binding is what Get reports.
package appctx

import "context"

// Provider resolves the handle in effect for a context.
//
// Each Provider owns a private context key, so two providers of the same
// handle type never observe each other's bindings.
//
// A Provider is safe for concurrent use.
type Provider[H any] struct {
	ambient H
	key     *providerKey
}

// providerKey must not be zero-sized: pointers to distinct zero-size values
// may compare equal, which would merge every provider's key.
type providerKey struct{ _ byte }

// NewProvider returns a Provider that falls back to ambient when no handle
// is bound.
func NewProvider[H any](ambient H) *Provider[H] {
	return &Provider[H]{
		ambient: ambient,
		key:     &providerKey{},
	}
}

// Get returns the handle bound to ctx, or the ambient handle.
func (p *Provider[H]) Get(ctx context.Context) H {
	if h, ok := p.Bound(ctx); ok {
		return h
	}
	return p.ambient
}

// Bound reports the handle bound to ctx, if any.
func (p *Provider[H]) Bound(ctx context.Context) (H, bool) {
	h, ok := ctx.Value(p.key).(H)
	return h, ok
}

// Ambient returns the fallback handle.
func (p *Provider[H]) Ambient() H {
	return p.ambient
}

// With returns a child of ctx with handle bound.
func (p *Provider[H]) With(ctx context.Context, handle H) context.Context {
	return context.WithValue(ctx, p.key, handle)
}

// RunWith calls fn with a child of ctx that has handle bound and returns
// fn's error unchanged.
func (p *Provider[H]) RunWith(ctx context.Context, handle H, fn func(ctx context.Context) error) error {
	return fn(p.With(ctx, handle))
}

// RunWithValue is RunWith for functions that produce a value.
func RunWithValue[H, T any](
	ctx context.Context,
	p *Provider[H],
	handle H,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	return fn(p.With(ctx, handle))
}
