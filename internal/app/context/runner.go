package appctx

import "context"

// Runner executes fn as a single unit of work, for example inside a
// database transaction.
type Runner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Do runs fn through r and returns the value it produced. On error the zero
// value of T is returned along with the error from r.
func Do[T any](ctx context.Context, r Runner, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := r.Run(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
