package aggregates

import (
	"testing"

	"github.com/google/uuid"
)

func TestRequireVersionMatch(t *testing.T) {
	if err := RequireVersionMatch(3, 3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireVersionMatch(2, 3); err == nil {
		t.Fatalf("expected conflict error")
	}
	if err := RequireVersionMatch(2, -1); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestIsZeroID(t *testing.T) {
	cases := []struct {
		id   any
		zero bool
	}{
		{nil, true},
		{uint(0), true},
		{uint(4), false},
		{uuid.Nil, true},
		{uuid.New(), false},
		{" ", true},
		{3.5, false},
	}
	for _, c := range cases {
		if got := isZeroID(c.id); got != c.zero {
			t.Fatalf("isZeroID(%v): want=%v got=%v", c.id, c.zero, got)
		}
	}
}
