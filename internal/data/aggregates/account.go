package aggregates

import (
	"context"
	"strings"

	"github.com/yungbote/forumcore/internal/data/repos"
	domainagg "github.com/yungbote/forumcore/internal/domain/aggregates"
	"github.com/yungbote/forumcore/internal/domain/user"
	"github.com/yungbote/forumcore/internal/platform/dbctx"
)

type AccountAggregateDeps struct {
	Base BaseDeps

	Users  repos.UserRepo
	Status repos.UserStatusRepo
}

type accountAggregate struct {
	deps AccountAggregateDeps
}

func NewAccountAggregate(deps AccountAggregateDeps) domainagg.AccountAggregate {
	deps.Base = deps.Base.withDefaults()
	return &accountAggregate{deps: deps}
}

func (a *accountAggregate) Contract() domainagg.Contract {
	return domainagg.AccountAggregateContract
}

func (a *accountAggregate) RegisterUser(ctx context.Context, in domainagg.RegisterUserInput) (*user.User, error) {
	const op = "Account.RegisterUser"
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" {
		return nil, validation(op, "username and email are required")
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return nil, validation(op, "password hash is required")
	}
	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	if !role.Valid() {
		return nil, validation(op, "unknown role "+string(role))
	}
	status := in.Status
	if status == "" {
		status = user.StatusPending
	}
	if !status.Valid() {
		return nil, validation(op, "unknown status "+string(status))
	}

	var out *user.User
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		usernameTaken, emailTaken, err := a.deps.Users.Taken(dbc, username, email)
		if err != nil {
			return err
		}
		switch {
		case usernameTaken:
			return domainagg.NewError(domainagg.CodeUniquenessViolation, op, "username already registered", nil)
		case emailTaken:
			return domainagg.NewError(domainagg.CodeUniquenessViolation, op, "email already registered", nil)
		}

		created, err := a.deps.Users.Create(dbc, []*user.User{{
			Username:  username,
			Email:     email,
			Password:  in.PasswordHash,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Role:      role,
			Status:    status,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		_, err = a.deps.Status.Ensure(dbc, out.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *accountAggregate) DeleteUser(ctx context.Context, userID uint) (domainagg.DeleteResult, error) {
	const op = "Account.DeleteUser"
	var out domainagg.DeleteResult
	if userID == 0 {
		return out, validation(op, "missing user_id")
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.LockByID(dbc, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound(op, "user", userID)
		}
		out, err = cascadeDelete(dbc, a.deps.Base, "users", userID)
		return err
	})
	observeCascade(a.deps.Base, op, out, err)
	return out, err
}
