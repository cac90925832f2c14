package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core/user"
)

type userRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Role      string      `db:"role"`
	StudentID null.String `db:"student_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      user.Role(r.Role),
		StudentID: r.StudentID.String,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const userColumns = "id, name, email, role, student_id, created_at"

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := userRow{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      string(usr.Role),
		StudentID: nullString(usr.StudentID),
		CreatedAt: usr.CreatedAt,
	}
	q := `INSERT INTO users (` + userColumns + `) VALUES (:id, :name, :email, :role, :student_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound)
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound)
	}
	return row.user(), nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, role user.Role) ([]user.User, error) {
	var rows []userRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+userColumns+` FROM users WHERE $1 = '' OR role = $1 ORDER BY seq`, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}
