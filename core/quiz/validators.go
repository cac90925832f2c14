package quiz

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dynamiclms/core"
)

var (
	questionTypeTag  = "questiontype"
	questionTypeText = "must be one of multiple_choice, true_false or fill_blank"

	quizTypeTag  = "quiztype"
	quizTypeText = "must be one of multiple_choice, true_false, fill_blank or mixed"

	mcOptionsTag  = "mcoptions"
	mcOptionsText = "please fill all 4 option fields"

	mcAnswerTag  = "mcanswer"
	mcAnswerText = "must be the index of one of the options"
)

// InitValidators registers the quiz validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(questionTypeTag, questionTypeValidation)
	core.RegisterCustomTranslation(validate, translator, questionTypeTag, questionTypeText)

	_ = validate.RegisterValidation(quizTypeTag, quizTypeValidation)
	core.RegisterCustomTranslation(validate, translator, quizTypeTag, quizTypeText)

	validate.RegisterStructValidation(newQuestionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, mcOptionsTag, mcOptionsText)
	core.RegisterCustomTranslation(validate, translator, mcAnswerTag, mcAnswerText)
}

func questionTypeValidation(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(QuestionType); ok {
		return t.IsQuestionType()
	}
	return false
}

func quizTypeValidation(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(QuestionType); ok {
		return t.IsQuizType()
	}
	return false
}

// newQuestionStructValidation checks the answer of multiple choice questions:
// exactly NumOptions non-empty options and a correct option within range.
// Other question types do not check options.
func newQuestionStructValidation(sl validator.StructLevel) {
	nq, ok := sl.Current().Interface().(NewQuestion)
	if !ok || nq.Type != TypeMultipleChoice {
		return
	}

	if len(nq.Options) != NumOptions {
		sl.ReportError(nq.Options, "options", "Options", mcOptionsTag, "")
		return
	}
	for _, opt := range nq.Options {
		if opt == "" {
			sl.ReportError(nq.Options, "options", "Options", mcOptionsTag, "")
			return
		}
	}
	if nq.CorrectOption < 0 || nq.CorrectOption >= len(nq.Options) {
		sl.ReportError(nq.CorrectOption, "correct_option", "CorrectOption", mcAnswerTag, "")
	}
}
