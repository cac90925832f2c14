package inmemdb

import (
	"context"

	"github.com/trezcool/dynamiclms/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := repo.db.wait(ctx); err != nil {
		return user.User{}, err
	}

	tbl := repo.db.user
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, u := range tbl.rows {
		if u.ID == usr.ID {
			return user.User{}, ErrDuplicateID
		}
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	tbl.rows = append(tbl.rows, usr)
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if err := repo.db.wait(ctx); err != nil {
		return user.User{}, err
	}

	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, u := range tbl.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if err := repo.db.wait(ctx); err != nil {
		return user.User{}, err
	}

	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, u := range tbl.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsers(ctx context.Context, role user.Role) ([]user.User, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	users := make([]user.User, 0, len(tbl.rows))
	for _, u := range tbl.rows {
		if role == "" || u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}
