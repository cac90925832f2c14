// Package testutil holds the helpers shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/user"
	logsvc "github.com/trezcool/dynamiclms/services/logger"
	inmemdb "github.com/trezcool/dynamiclms/storage/database/inmem"
)

// NewLogger returns a logger that reports nothing and prints nowhere.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// PrepareDB opens an in-memory store loaded with the demo data.
func PrepareDB(t *testing.T, opts ...inmemdb.Option) *inmemdb.DB {
	db, err := inmemdb.Open(append([]inmemdb.Option{inmemdb.WithFixtures()}, opts...)...)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, repo user.Repository, name, email string, role user.Role, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateCourse stores a course of prof, enrolling students. StudentsCount matches the roster.
func CreateCourse(t *testing.T, repo course.Repository, name, classroomCode string, prof user.User, students ...user.User) course.Course {
	now := time.Now().UTC()
	crs := course.Course{
		ID:            uuid.NewString(),
		Name:          name,
		Code:          "CS999",
		ClassroomCode: classroomCode,
		ProfessorID:   prof.ID,
		ProfessorName: prof.Name,
		CreatedAt:     now,
		StudentsCount: len(students),
		Students:      make([]course.Student, 0, len(students)),
	}
	for _, s := range students {
		crs.Students = append(crs.Students, course.Student{
			ID:         s.ID,
			Name:       s.Name,
			Email:      s.Email,
			StudentID:  s.StudentID,
			EnrolledAt: now,
		})
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}
