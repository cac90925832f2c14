package inmemdb

import (
	"context"

	"github.com/trezcool/dynamiclms/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asgmt assignment.Assignment) (assignment.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return assignment.Assignment{}, err
	}

	tbl := repo.db.assignment
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, a := range tbl.rows {
		if a.ID == asgmt.ID {
			return assignment.Assignment{}, ErrDuplicateID
		}
	}
	tbl.rows = append(tbl.rows, asgmt)
	return asgmt, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, courseID, id string) (assignment.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return assignment.Assignment{}, err
	}

	tbl := repo.db.assignment
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, a := range tbl.rows {
		if a.CourseID == courseID && a.ID == id {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, courseID string) ([]assignment.Assignment, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.assignment
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	asgmts := make([]assignment.Assignment, 0)
	for _, a := range tbl.rows {
		if a.CourseID == courseID {
			asgmts = append(asgmts, a)
		}
	}
	return asgmts, nil
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	if err := repo.db.wait(ctx); err != nil {
		return assignment.Submission{}, err
	}

	tbl := repo.db.assignment
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, s := range tbl.submissions {
		if s.AssignmentID == sub.AssignmentID && s.StudentID == sub.StudentID {
			return assignment.Submission{}, assignment.ErrAlreadySubmitted
		}
	}
	tbl.submissions = append(tbl.submissions, sub)
	return sub, nil
}

func (repo *assignmentRepository) QuerySubmissions(ctx context.Context, courseID, studentID string) ([]assignment.Submission, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.assignment
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	inCourse := make(map[string]bool)
	for _, a := range tbl.rows {
		if a.CourseID == courseID {
			inCourse[a.ID] = true
		}
	}
	subs := make([]assignment.Submission, 0)
	for _, s := range tbl.submissions {
		if s.StudentID == studentID && inCourse[s.AssignmentID] {
			subs = append(subs, s)
		}
	}
	return subs, nil
}
