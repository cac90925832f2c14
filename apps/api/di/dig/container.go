package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/dynamiclms/apps/api/echo"
	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/quiz"
	"github.com/trezcool/dynamiclms/core/studyaid"
	"github.com/trezcool/dynamiclms/core/user"
	cachesvc "github.com/trezcool/dynamiclms/services/cache"
	logsvc "github.com/trezcool/dynamiclms/services/logger"
	"github.com/trezcool/dynamiclms/storage/database"
	"github.com/trezcool/dynamiclms/storage/database/fixtures"
	inmemdb "github.com/trezcool/dynamiclms/storage/database/inmem"
	sqlxrepos "github.com/trezcool/dynamiclms/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Store is the configured storage: its repositories and how to release it.
type Store struct {
	Repos fixtures.Repositories
	Close func() error
}

type serverParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	UserSvc       *user.Service
	CourseSvc     *course.Service
	LessonSvc     *lesson.Service
	AssignmentSvc *assignment.Service
	QuizSvc       *quiz.Service
	GradeSvc      *grade.Service
	StudyAidSvc   *studyaid.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) *Store {
	setUp := func() (*Store, error) {
		if conf.Database.InMemory() {
			db, err := inmemdb.OpenWithConfig(conf)
			if err != nil {
				return nil, err
			}
			return &Store{Repos: db.Repositories(), Close: func() error { return nil }}, nil
		}

		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(context.Background(), db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{Repos: sqlxrepos.Repositories(db), Close: db.Close}, nil
	}

	store, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return store
}

func newRepositories(s *Store) (
	user.Repository,
	course.Repository,
	lesson.Repository,
	assignment.Repository,
	quiz.Repository,
	grade.Repository,
) {
	r := s.Repos
	return r.Users, r.Courses, r.Lessons, r.Assignments, r.Quizzes, r.Grades
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	quiz.InitValidators(validate, translator)
	return validate, translator
}

func newQuizService(repo quiz.Repository, lessons *lesson.Service) *quiz.Service {
	return quiz.NewService(repo, lessons)
}

func newStudyAidService(lessons *lesson.Service, quizzes *quiz.Service) *studyaid.Service {
	return studyaid.NewService(lessons, quizzes)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		UserSvc:       p.UserSvc,
		CourseSvc:     p.CourseSvc,
		LessonSvc:     p.LessonSvc,
		AssignmentSvc: p.AssignmentSvc,
		QuizSvc:       p.QuizSvc,
		GradeSvc:      p.GradeSvc,
		StudyAidSvc:   p.StudyAidSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newRepositories))
	must(c.Provide(cachesvc.NewCache))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(lesson.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(newQuizService))
	must(c.Provide(grade.NewService))
	must(c.Provide(newStudyAidService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
