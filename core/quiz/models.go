package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dynamiclms/core"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeFillBlank      QuestionType = "fill_blank"
	// TypeMixed only applies to quizzes and bank filters, never to a Question.
	TypeMixed QuestionType = "mixed"
)

// QuestionTypes are the types a Question can have.
var QuestionTypes = []QuestionType{TypeMultipleChoice, TypeTrueFalse, TypeFillBlank}

func (t QuestionType) IsQuestionType() bool {
	return t == TypeMultipleChoice || t == TypeTrueFalse || t == TypeFillBlank
}

func (t QuestionType) IsQuizType() bool {
	return t == TypeMixed || t.IsQuestionType()
}

type SourceKind string

const (
	SourceLesson SourceKind = "lesson"
	SourcePDF    SourceKind = "pdf"
)

// NumOptions is the number of options of a multiple choice question.
const NumOptions = 4

type Question struct {
	ID       string       `json:"id"`
	CourseID string       `json:"course_id"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"question"`
	Options  []string     `json:"options,omitempty"`

	// only the answer field of the question type is set
	CorrectOption *int   `json:"correct_option,omitempty"`
	CorrectBool   *bool  `json:"correct_bool,omitempty"`
	CorrectText   string `json:"correct_text,omitempty"`

	// Source is the id of the lesson the question comes from.
	Source     string     `json:"source,omitempty"`
	SourceKind SourceKind `json:"source_kind,omitempty"`
	CreatedAt  time.Time  `json:"created_at"` // UTC
}

// NewQuestion contains information needed to add a Question to a course quiz bank.
type NewQuestion struct {
	Type          QuestionType `json:"type" validate:"required,questiontype"`
	Prompt        string       `json:"question" validate:"required,notblank,max=1000"`
	Options       []string     `json:"options"`
	CorrectOption int          `json:"correct_option"`
	CorrectBool   bool         `json:"correct_bool"`
	CorrectText   string       `json:"correct_text" validate:"max=500"`
	Source        string       `json:"source" validate:"required_with=SourceKind"`
	SourceKind    SourceKind   `json:"source_kind" validate:"omitempty,oneof=lesson pdf"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Type = QuestionType(core.CleanString(string(nq.Type), true /* lower */))
	nq.Prompt = core.CleanString(nq.Prompt)
	nq.CorrectText = core.CleanString(nq.CorrectText)
	nq.Source = core.CleanString(nq.Source)
	nq.SourceKind = SourceKind(core.CleanString(string(nq.SourceKind), true /* lower */))
	if nq.Source != "" && nq.SourceKind == "" {
		nq.SourceKind = SourceLesson
	}
	for i, opt := range nq.Options {
		nq.Options[i] = core.CleanString(opt)
	}
	return validate.Struct(nq)
}

// question builds the Question, keeping only the answer of its type.
func (nq NewQuestion) question() Question {
	q := Question{
		Type:       nq.Type,
		Prompt:     nq.Prompt,
		Source:     nq.Source,
		SourceKind: nq.SourceKind,
	}
	switch nq.Type {
	case TypeMultipleChoice:
		idx := nq.CorrectOption
		q.Options = append([]string(nil), nq.Options...)
		q.CorrectOption = &idx
	case TypeTrueFalse:
		b := nq.CorrectBool
		q.CorrectBool = &b
	case TypeFillBlank:
		q.CorrectText = nq.CorrectText
	}
	return q
}

// GenerateRequest asks for template questions generated from a lesson or its PDF.
type GenerateRequest struct {
	Source     string       `json:"source" validate:"required"`
	SourceKind SourceKind   `json:"source_kind" validate:"required,oneof=lesson pdf"`
	Type       QuestionType `json:"type" validate:"required,quiztype"`
}

func (gr *GenerateRequest) Validate(validate *validator.Validate) error {
	gr.Source = core.CleanString(gr.Source)
	gr.SourceKind = SourceKind(core.CleanString(string(gr.SourceKind), true /* lower */))
	gr.Type = QuestionType(core.CleanString(string(gr.Type), true /* lower */))
	if gr.Type == "" {
		gr.Type = TypeMixed
	}
	return validate.Struct(gr)
}

type Quiz struct {
	ID          string        `json:"id"`
	CourseID    string        `json:"course_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        QuestionType  `json:"type"`
	Category    core.Category `json:"category"`
	QuestionIDs []string      `json:"question_ids"`
	CreatedAt   time.Time     `json:"created_at"`           // UTC
	DueDate     *time.Time    `json:"due_date,omitempty"`   // UTC
	TimeLimit   int           `json:"time_limit,omitempty"` // minutes
}

func (q Quiz) GetCategory() core.Category { return q.Category }

// NewQuiz contains information needed to create a new Quiz.
// Type defaults to mixed and Category to prelim.
type NewQuiz struct {
	Name        string        `json:"name" validate:"required,notblank,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	Type        QuestionType  `json:"type" validate:"required,quiztype"`
	Category    core.Category `json:"category" validate:"required,category"`
	QuestionIDs []string      `json:"question_ids" validate:"dive,required"`
	DueDate     *time.Time    `json:"due_date"`
	TimeLimit   int           `json:"time_limit" validate:"gte=0,lte=600"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Name = core.CleanString(nq.Name)
	nq.Description = core.CleanString(nq.Description)
	nq.Type = QuestionType(core.CleanString(string(nq.Type), true /* lower */))
	if nq.Type == "" {
		nq.Type = TypeMixed
	}
	nq.Category = core.Category(core.CleanString(string(nq.Category), true /* lower */))
	if nq.Category == "" {
		nq.Category = core.CategoryPrelim
	}
	if nq.DueDate != nil {
		due := nq.DueDate.UTC()
		nq.DueDate = &due
	}
	return validate.Struct(nq)
}

// Result is the recorded outcome of a quiz taken by a student.
type Result struct {
	QuizID    string    `json:"quiz_id"`
	StudentID string    `json:"student_id"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	TakenAt   time.Time `json:"taken_at"` // UTC
}

type NewResult struct {
	StudentID string  `json:"student_id" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore  float64 `json:"max_score" validate:"gt=0"`
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	return validate.Struct(nr)
}

// StudentQuiz is a Quiz as seen by one student.
type StudentQuiz struct {
	Quiz
	QuestionCount int     `json:"question_count"`
	Taken         bool    `json:"taken"`
	Result        *Result `json:"result,omitempty"`
}
