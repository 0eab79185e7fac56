package memo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWrap0(t *testing.T) {
	calls := 0
	get, m, err := Wrap0(testOpts, func(context.Context) (string, error) {
		calls++
		return "config", nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if v, err := get(context.Background()); err != nil || v != "config" {
			t.Fatalf("get() = (%q, %v)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if m.Arity() != 0 {
		t.Errorf("Arity = %d, want 0", m.Arity())
	}
}

func TestWrap1(t *testing.T) {
	calls := 0
	get, m, err := Wrap1(testOpts, func(_ context.Context, id int) (string, error) {
		calls++
		return fmt.Sprintf("user-%d", id), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	u1, _ := get(ctx, 1)
	u1again, _ := get(ctx, 1)
	u2, _ := get(ctx, 2)

	if u1 != "user-1" || u1again != "user-1" || u2 != "user-2" {
		t.Errorf("unexpected results %q %q %q", u1, u1again, u2)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if m.CacheSize() != 2 {
		t.Errorf("CacheSize = %d, want 2", m.CacheSize())
	}
}

func TestWrap2_NamedTypes(t *testing.T) {
	calls := 0
	get, _, err := Wrap2(testOpts, func(_ context.Context, id userID, verbose bool) (string, error) {
		calls++
		return fmt.Sprintf("%s/%t", id, verbose), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	v, _ := get(ctx, "u1", true)
	_, _ = get(ctx, "u1", true)
	_, _ = get(ctx, "u1", false)

	if v != "u1/true" {
		t.Errorf("got %q", v)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWrap3(t *testing.T) {
	get, m, err := Wrap3(Options{TTL: time.Minute, Size: 1}, func(_ context.Context, a string, b int, c float64) (string, error) {
		return fmt.Sprintf("%s:%d:%g", a, b, c), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	v, err := get(context.Background(), "x", 2, 0.5)
	if err != nil || v != "x:2:0.5" {
		t.Errorf("get() = (%q, %v)", v, err)
	}
	if m.Arity() != 3 {
		t.Errorf("Arity = %d, want 3", m.Arity())
	}
}

func TestWrap_Errors(t *testing.T) {
	if _, _, err := Wrap1[int, string](testOpts, nil); !errors.Is(err, ErrNilFunc) {
		t.Errorf("nil func error = %v, want ErrNilFunc", err)
	}

	fn := func(context.Context) (int, error) { return 0, nil }
	if _, _, err := Wrap0(Options{}, fn); !errors.Is(err, ErrInvalidTTL) {
		t.Errorf("invalid options error = %v, want ErrInvalidTTL", err)
	}
}
