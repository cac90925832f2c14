// Package inmemdb is the in-memory store. Every table is guarded by its own RWMutex
// and keeps rows in insertion order.
package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/quiz"
	"github.com/trezcool/dynamiclms/core/user"
	"github.com/trezcool/dynamiclms/storage/database/fixtures"
)

var ErrDuplicateID = errors.New("a row with this id already exists")

type (
	DB struct {
		latency time.Duration
		seed    bool

		user       *userTable
		course     *courseTable
		lesson     *lessonTable
		assignment *assignmentTable
		quiz       *quizTable
		grade      *gradeTable
	}

	Option func(db *DB)

	userTable struct {
		mutex sync.RWMutex
		rows  []user.User
	}

	courseTable struct {
		mutex sync.RWMutex
		rows  []course.Course
	}

	lessonTable struct {
		mutex sync.RWMutex
		rows  []lesson.Lesson
	}

	assignmentTable struct {
		mutex       sync.RWMutex
		rows        []assignment.Assignment
		submissions []assignment.Submission
	}

	quizTable struct {
		mutex     sync.RWMutex
		questions []quiz.Question
		rows      []quiz.Quiz
		results   []quiz.Result
	}

	gradeTable struct {
		mutex sync.RWMutex
		rows  []grade.Grade
	}
)

// WithLatency delays every repository call by d, simulating a remote store.
// A call whose context is done before the delay elapses fails with the context error.
func WithLatency(d time.Duration) Option {
	return func(db *DB) { db.latency = d }
}

// WithFixtures loads the demo data on Open.
func WithFixtures() Option {
	return func(db *DB) { db.seed = true }
}

func Open(opts ...Option) (*DB, error) {
	db := &DB{
		user:       &userTable{},
		course:     &courseTable{},
		lesson:     &lessonTable{},
		assignment: &assignmentTable{},
		quiz:       &quizTable{},
		grade:      &gradeTable{},
	}
	for _, opt := range opts {
		opt(db)
	}

	if db.seed {
		// load without the simulated latency
		latency := db.latency
		db.latency = 0
		if err := fixtures.Load(context.Background(), db.Repositories()); err != nil {
			return nil, errors.Wrap(err, "loading fixtures")
		}
		db.latency = latency
	}
	return db, nil
}

// OpenWithConfig opens a DB configured by conf.Database.
func OpenWithConfig(conf *core.Config) (*DB, error) {
	opts := []Option{WithLatency(conf.Database.Latency)}
	if conf.Database.Seed {
		opts = append(opts, WithFixtures())
	}
	return Open(opts...)
}

func (db *DB) Repositories() fixtures.Repositories {
	return fixtures.Repositories{
		Users:       NewUserRepository(db),
		Courses:     NewCourseRepository(db),
		Lessons:     NewLessonRepository(db),
		Assignments: NewAssignmentRepository(db),
		Quizzes:     NewQuizRepository(db),
		Grades:      NewGradeRepository(db),
	}
}

func (db *DB) wait(ctx context.Context) error {
	return core.Sleep(ctx, db.latency)
}
