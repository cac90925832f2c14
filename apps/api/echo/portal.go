package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/portal"
	"github.com/trezcool/dynamiclms/core/quiz"
	"github.com/trezcool/dynamiclms/core/studyaid"
	"github.com/trezcool/dynamiclms/core/user"
)

var (
	contextCourseKey = "course"

	errCrsNotFoundInCtx = errors.New("course object not found in echo.Context")
)

type portalApi struct {
	logger        core.Logger
	validate      *validator.Validate
	usrSvc        *user.Service
	crsSvc        *course.Service
	lessonSvc     *lesson.Service
	assignmentSvc *assignment.Service
	quizSvc       *quiz.Service
	gradeSvc      *grade.Service
	studyAidSvc   *studyaid.Service
}

func newPortalApi(deps ServerDeps) *portalApi {
	return &portalApi{
		logger:        deps.Logger,
		validate:      deps.Validate,
		usrSvc:        deps.UserSvc,
		crsSvc:        deps.CourseSvc,
		lessonSvc:     deps.LessonSvc,
		assignmentSvc: deps.AssignmentSvc,
		quizSvc:       deps.QuizSvc,
		gradeSvc:      deps.GradeSvc,
		studyAidSvc:   deps.StudyAidSvc,
	}
}

// courseMiddleware loads the course of the `:id` path param. A course the portal user
// neither manages nor attends is reported as not found.
func courseMiddleware(svc *course.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			crs, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding course by ID")
			}

			var member bool
			switch usr.Role {
			case user.RoleProfessor:
				member = crs.ProfessorID == usr.ID
			case user.RoleStudent:
				member = crs.HasStudent(usr.ID)
			}
			if !member {
				return errHttpNotFound
			}

			ctx.Set(contextCourseKey, crs)
			return next(ctx)
		}
	}
}

func getContextCourse(ctx echo.Context) (course.Course, error) {
	if crs, ok := ctx.Get(contextCourseKey).(course.Course); ok {
		return crs, nil
	}
	return course.Course{}, errCrsNotFoundInCtx
}

// Handlers shared by both portals

func (api *portalApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *portalApi) retrieveCourse(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *portalApi) courseNav(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	nav, err := portal.NewCourseNav(usr.Role, crs.ID, ctx.QueryParam("page"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, nav)
}

func (api *portalApi) listLessons(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	lessons, err := api.lessonSvc.List(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "listing lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}
