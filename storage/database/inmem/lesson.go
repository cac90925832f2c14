package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/dynamiclms/core/lesson"
)

type lessonRepository struct {
	db *DB
}

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, lsn lesson.Lesson) (lesson.Lesson, error) {
	if err := repo.db.wait(ctx); err != nil {
		return lesson.Lesson{}, err
	}

	tbl := repo.db.lesson
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	var inCategory int
	for _, l := range tbl.rows {
		if l.ID == lsn.ID {
			return lesson.Lesson{}, ErrDuplicateID
		}
		if l.CourseID == lsn.CourseID && l.Category == lsn.Category {
			inCategory++
		}
	}
	lsn.Order = inCategory + 1
	tbl.rows = append(tbl.rows, lsn)
	return lsn, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, courseID, id string) (lesson.Lesson, error) {
	if err := repo.db.wait(ctx); err != nil {
		return lesson.Lesson{}, err
	}

	tbl := repo.db.lesson
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, l := range tbl.rows {
		if l.CourseID == courseID && l.ID == id {
			return l, nil
		}
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) QueryLessons(ctx context.Context, courseID string) ([]lesson.Lesson, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.lesson
	tbl.mutex.RLock()
	lessons := make([]lesson.Lesson, 0)
	for _, l := range tbl.rows {
		if l.CourseID == courseID {
			lessons = append(lessons, l)
		}
	}
	tbl.mutex.RUnlock()

	sort.SliceStable(lessons, func(i, j int) bool {
		ci, cj := lessons[i].Category.Index(), lessons[j].Category.Index()
		if ci != cj {
			return ci < cj
		}
		return lessons[i].Order < lessons[j].Order
	})
	return lessons, nil
}
