package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/forumcore/internal/data/cascade"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/knowledge"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates invariant rule violation.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates a lost compare-and-set.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

const embeddingOwnerCheck = "chk_message_embedding_single_owner"

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

// MapError maps repo, driver and cascade failures onto aggregate error codes.
// Errors that already carry a code pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrInvariant):
		return domainagg.Wrap(domainagg.CodeInvariantViolation, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	case errors.Is(err, knowledge.ErrInvalidOwner):
		return domainagg.Wrap(domainagg.CodeInvalidOwner, op, err)
	case errors.Is(err, cascade.ErrRestricted):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.Wrap(domainagg.CodeUniquenessViolation, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return domainagg.Wrap(domainagg.CodeUniquenessViolation, op, err)
		case "23503": // foreign_key_violation
			return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
		case "23514": // check_violation
			if pgErr.ConstraintName == embeddingOwnerCheck {
				return domainagg.Wrap(domainagg.CodeInvalidOwner, op, err)
			}
			return domainagg.Wrap(domainagg.CodeValidation, op, err)
		case "40001", "40P01", "55P03": // serialization, deadlock, lock_not_available
			return domainagg.Wrap(domainagg.CodeRetryable, op, err)
		}
	}

	// sqlite reports constraint failures as plain text.
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return domainagg.Wrap(domainagg.CodeUniquenessViolation, op, err)
	case strings.Contains(msg, embeddingOwnerCheck):
		return domainagg.Wrap(domainagg.CodeInvalidOwner, op, err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}

func notFound(op, what string, id any) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, what+" not found: "+formatID(id), nil)
}

func invalidState(op, msg string) error {
	return domainagg.NewError(domainagg.CodeInvalidState, op, msg, nil)
}

func validation(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}
