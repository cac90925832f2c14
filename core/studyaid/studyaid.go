// Package studyaid builds the study aids of a lesson out of the quiz bank questions sourced from it.
package studyaid

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/quiz"
)

type Kind string

const (
	KindFlashcards     Kind = "flashcards"
	KindFillBlank      Kind = "fill_blank"
	KindMultipleChoice Kind = "multiple_choice"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(core.CleanString(s, true /* lower */)); k {
	case "":
		return KindFlashcards, nil
	case KindFlashcards, KindFillBlank, KindMultipleChoice:
		return k, nil
	}
	return "", core.NewFieldValidationError("type", "must be one of flashcards, fill_blank or multiple_choice")
}

type Item struct {
	QuestionID string   `json:"question_id"`
	Front      string   `json:"front,omitempty"`
	Back       string   `json:"back,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	Options    []string `json:"options,omitempty"`
	Answer     string   `json:"answer,omitempty"`
}

type StudyAid struct {
	LessonID    string `json:"lesson_id"`
	LessonTitle string `json:"lesson_title"`
	Kind        Kind   `json:"type"`
	Items       []Item `json:"items"`
}

// Build turns the questions sourced from lsn into study aid items of the given kind.
// Flashcards use every question, the other kinds only questions of the matching type.
func Build(lsn lesson.Lesson, bank []quiz.Question, kind Kind) StudyAid {
	aid := StudyAid{
		LessonID:    lsn.ID,
		LessonTitle: lsn.Title,
		Kind:        kind,
		Items:       make([]Item, 0),
	}
	for _, q := range bank {
		if q.Source != lsn.ID {
			continue
		}
		switch {
		case kind == KindFlashcards:
			aid.Items = append(aid.Items, Item{QuestionID: q.ID, Front: q.Prompt, Back: answerText(q)})
		case kind == KindFillBlank && q.Type == quiz.TypeFillBlank:
			aid.Items = append(aid.Items, Item{QuestionID: q.ID, Prompt: q.Prompt, Answer: q.CorrectText})
		case kind == KindMultipleChoice && q.Type == quiz.TypeMultipleChoice:
			aid.Items = append(aid.Items, Item{QuestionID: q.ID, Prompt: q.Prompt, Options: q.Options, Answer: answerText(q)})
		}
	}
	return aid
}

func answerText(q quiz.Question) string {
	switch q.Type {
	case quiz.TypeMultipleChoice:
		if q.CorrectOption != nil && *q.CorrectOption >= 0 && *q.CorrectOption < len(q.Options) {
			return q.Options[*q.CorrectOption]
		}
	case quiz.TypeTrueFalse:
		if q.CorrectBool != nil {
			if *q.CorrectBool {
				return "True"
			}
			return "False"
		}
	case quiz.TypeFillBlank:
		return q.CorrectText
	}
	return ""
}

type (
	LessonGetter interface {
		GetByID(ctx context.Context, courseID, id string) (lesson.Lesson, error)
	}

	BankLister interface {
		ListBank(ctx context.Context, courseID string, typ quiz.QuestionType) ([]quiz.Question, error)
	}

	Service struct {
		lessons LessonGetter
		bank    BankLister
	}
)

func NewService(lessons LessonGetter, bank BankLister) *Service {
	return &Service{lessons: lessons, bank: bank}
}

func (svc *Service) Get(ctx context.Context, courseID, lessonID string, kind Kind) (StudyAid, error) {
	lsn, err := svc.lessons.GetByID(ctx, courseID, lessonID)
	if err != nil {
		return StudyAid{}, err
	}
	bank, err := svc.bank.ListBank(ctx, courseID, quiz.TypeMixed)
	if err != nil {
		return StudyAid{}, errors.Wrap(err, "listing quiz bank of lesson "+strconv.Quote(lessonID))
	}
	return Build(lsn, bank, kind), nil
}
