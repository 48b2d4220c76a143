package aggregates

import (
	"context"

	"github.com/yungbote/forumcore/internal/domain/user"
)

var AccountAggregateContract = Contract{
	Name:             "Account.AccountAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns user registration and the cascading removal of everything a user owns.",
}

// AccountAggregate owns user identity writes.
//
// Failures carry CodeValidation, CodeUniquenessViolation, CodeNotFound,
// CodePreconditionFailed or CodeInternal.
type AccountAggregate interface {
	Aggregate

	// RegisterUser creates the user and its reputation row.
	RegisterUser(ctx context.Context, in RegisterUserInput) (*user.User, error)

	// DeleteUser removes the user and cascades per the policy table.
	DeleteUser(ctx context.Context, userID uint) (DeleteResult, error)
}

type RegisterUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         user.Role
	Status       user.AccountStatus
}

// DeleteResult reports the rows a cascading delete removed or detached, by table.
type DeleteResult struct {
	Deleted map[string]int64
	Nulled  map[string]int64
}
