package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

type mapping struct {
	status int
	code   string
}

// aggregateMappings gives every aggregate code its own client code. Statuses
// repeat where HTTP has no finer distinction.
var aggregateMappings = map[domainagg.ErrorCode]mapping{
	domainagg.CodeValidation:          {http.StatusBadRequest, "validation_failed"},
	domainagg.CodeInvalidOwner:        {http.StatusUnprocessableEntity, "invalid_embedding_owner"},
	domainagg.CodeCycle:               {http.StatusUnprocessableEntity, "hierarchy_cycle"},
	domainagg.CodeSelfParent:          {http.StatusUnprocessableEntity, "self_parent"},
	domainagg.CodeInvariantViolation:  {http.StatusUnprocessableEntity, "invariant_violation"},
	domainagg.CodeNotFound:            {http.StatusNotFound, "not_found"},
	domainagg.CodeUniquenessViolation: {http.StatusConflict, "already_exists"},
	domainagg.CodeConflict:            {http.StatusConflict, "concurrent_update"},
	domainagg.CodeInvalidState:        {http.StatusConflict, "invalid_state"},
	domainagg.CodeMaxAttemptsExceeded: {http.StatusTooManyRequests, "max_attempts_exceeded"},
	domainagg.CodePreconditionFailed:  {http.StatusPreconditionFailed, "precondition_failed"},
	domainagg.CodeRetryable:           {http.StatusServiceUnavailable, "retry_later"},
	domainagg.CodeInternal:            {http.StatusInternalServerError, "internal_error"},
}

// FromAggregate converts an aggregate failure into an API error. Errors that
// already are *Error pass through; anything without a code is internal.
func FromAggregate(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	m, ok := aggregateMappings[domainagg.CodeOf(err)]
	if !ok {
		m = aggregateMappings[domainagg.CodeInternal]
	}
	return New(m.status, m.code, err)
}
