package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/quiz"
	"github.com/trezcool/dynamiclms/core/studyaid"
	"github.com/trezcool/dynamiclms/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       *user.Service
		CourseSvc     *course.Service
		LessonSvc     *lesson.Service
		AssignmentSvc *assignment.Service
		QuizSvc       *quiz.Service
		GradeSvc      *grade.Service
		StudyAidSvc   *studyaid.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		registry *prometheus.Registry
		shutdown chan os.Signal
		errors   chan error
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		registry: prometheus.NewRegistry(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	if !deps.Conf.TestMode {
		signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(newMetricsMiddleware(s.registry))

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerAuthAPI(v1, s.deps)
	registerProfessorAPI(v1.Group("/prof", portalMiddleware(user.RoleProfessor, s.deps)), s.deps)
	registerStudentAPI(v1.Group("/student", portalMiddleware(user.RoleStudent, s.deps)), s.deps)
}

// Start listens on the configured address. Errors other than a closed server are sent to Errors().
func (s *Server) Start() {
	s.deps.Logger.Info(fmt.Sprintf("API listening on %s", s.deps.Conf.Server.Address))
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

// MetricsHandler serves the request metrics in the prometheus exposition format.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Dynamic LMS API!")
}
