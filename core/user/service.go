package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryUsers returns the users of the given role, all users when role is empty.
		QueryUsers(ctx context.Context, role Role) ([]User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Query(ctx context.Context, role Role) ([]User, error) {
	return svc.repo.QueryUsers(ctx, role)
}

// Login resolves the identity behind validated Credentials.
// A known email of the requested role logs in as that user; anything else logs in as fallbackID.
func (svc *Service) Login(ctx context.Context, cred Credentials, fallbackID string) (User, error) {
	usr, err := svc.GetByEmail(ctx, cred.Email)
	switch {
	case err == nil && usr.Role == cred.Role:
		return usr, nil
	case err != nil && errors.Cause(err) != ErrNotFound:
		return User{}, errors.Wrap(err, "finding user by email")
	}

	usr, err = svc.repo.GetUserByID(ctx, fallbackID)
	if err != nil {
		return User{}, errors.Wrap(err, "finding fallback user")
	}
	return usr, nil
}
