package memo

import "context"

// Scalar is the set of argument types the typed wrappers accept.
type Scalar interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Wrap0 memoizes a function with no arguments.
func Wrap0[R any](opts Options, fn func(context.Context) (R, error)) (func(context.Context) (R, error), *Memoized[R], error) {
	if fn == nil {
		return nil, nil, ErrNilFunc
	}
	m, err := New(opts, 0, func(ctx context.Context, _ ...any) (R, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context) (R, error) {
		return m.Call(ctx)
	}, m, nil
}

// Wrap1 memoizes a one-argument function.
func Wrap1[A Scalar, R any](opts Options, fn func(context.Context, A) (R, error)) (func(context.Context, A) (R, error), *Memoized[R], error) {
	if fn == nil {
		return nil, nil, ErrNilFunc
	}
	m, err := New(opts, 1, func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, args[0].(A))
	})
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context, a A) (R, error) {
		return m.Call(ctx, a)
	}, m, nil
}

// Wrap2 memoizes a two-argument function.
func Wrap2[A, B Scalar, R any](opts Options, fn func(context.Context, A, B) (R, error)) (func(context.Context, A, B) (R, error), *Memoized[R], error) {
	if fn == nil {
		return nil, nil, ErrNilFunc
	}
	m, err := New(opts, 2, func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, args[0].(A), args[1].(B))
	})
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context, a A, b B) (R, error) {
		return m.Call(ctx, a, b)
	}, m, nil
}

// Wrap3 memoizes a three-argument function.
func Wrap3[A, B, C Scalar, R any](opts Options, fn func(context.Context, A, B, C) (R, error)) (func(context.Context, A, B, C) (R, error), *Memoized[R], error) {
	if fn == nil {
		return nil, nil, ErrNilFunc
	}
	m, err := New(opts, 3, func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, args[0].(A), args[1].(B), args[2].(C))
	})
	if err != nil {
		return nil, nil, err
	}
	return func(ctx context.Context, a A, b B, c C) (R, error) {
		return m.Call(ctx, a, b, c)
	}, m, nil
}
