package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesCodeSentinels(t *testing.T) {
	err := NewError(CodeCycle, "Documents.AddGraphEdge", "a reaches b", nil)
	wrapped := fmt.Errorf("outer: %w", err)

	assert.ErrorIs(t, wrapped, ErrCycle)
	assert.NotErrorIs(t, wrapped, ErrSelfParent)
	assert.True(t, IsCode(wrapped, CodeCycle))
	assert.Equal(t, CodeCycle, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestErrorIsComparesIdentityForDetailedTargets(t *testing.T) {
	a := NewError(CodeNotFound, "op", "user 1", nil)
	b := NewError(CodeNotFound, "op", "user 1", nil)
	assert.ErrorIs(t, a, a)
	assert.NotErrorIs(t, a, b)
}

func TestErrorMessageFormats(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeValidation, Op: "X.Y", Message: "bad"}, "X.Y: bad (validation)"},
		{&Error{Code: CodeConflict, Op: "X.Y"}, "X.Y (conflict)"},
		{&Error{Code: CodeInternal, Message: "boom"}, "boom (internal)"},
		{&Error{Code: CodeRetryable}, "retryable"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("driver said no")
	err := Wrap(CodeRetryable, "op", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Code: CodeRetryable})
	assert.Nil(t, Wrap(CodeInternal, "op", nil))
}
