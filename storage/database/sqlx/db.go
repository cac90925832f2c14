// Package sqlxrepos implements the repositories on PostgreSQL through sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/storage/database/fixtures"
)

const uniqueViolation = "23505"

// Repositories returns every repository backed by db.
func Repositories(db *sqlx.DB) fixtures.Repositories {
	return fixtures.Repositories{
		Users:       NewUserRepository(db),
		Courses:     NewCourseRepository(db),
		Lessons:     NewLessonRepository(db),
		Assignments: NewAssignmentRepository(db),
		Quizzes:     NewQuizRepository(db),
		Grades:      NewGradeRepository(db),
	}
}

// isUniqueViolation reports whether err violates the named unique constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}

// withTx runs fn in a transaction, committing when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func utcPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
