package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/portal"
	"github.com/trezcool/dynamiclms/core/studyaid"
)

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := newPortalApi(deps)

	g.GET("/dashboard", api.studentDashboard)
	g.GET("/nav", api.studentNav)
	g.GET("/profile", api.profile)
	g.GET("/courses", api.studentCourses)
	g.POST("/courses/join", api.joinCourse)

	// detail endpoints
	dg := g.Group("/courses/:id", courseMiddleware(api.crsSvc))
	dg.GET("", api.retrieveCourse)
	dg.GET("/nav", api.courseNav)
	dg.GET("/content", api.listLessons)
	dg.GET("/content/:lessonId/study-aid", api.studyAid)
	dg.GET("/assignments", api.studentAssignments)
	dg.POST("/assignments/:assignmentId/submit", api.submitAssignment)
	dg.GET("/quizzes", api.studentQuizzes)
	dg.GET("/grades", api.studentGrades)
}

// Handlers

func (api *portalApi) studentDashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetStudentCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting student courses")
	}

	progress := make([]portal.CourseProgress, len(courses))
	g, gctx := errgroup.WithContext(ctx.Request().Context())
	for i, crs := range courses {
		i, crs := i, crs
		g.Go(func() error {
			asgmts, err := api.assignmentSvc.ListForStudent(gctx, crs.ID, usr.ID)
			if err != nil {
				return errors.Wrap(err, "listing student assignments")
			}
			quizzes, err := api.quizSvc.ListForStudent(gctx, crs.ID, usr.ID)
			if err != nil {
				return errors.Wrap(err, "listing student quizzes")
			}
			progress[i] = portal.NewCourseProgress(crs, asgmts, quizzes)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, portal.NewStudentDashboard(usr.ID, usr.Name, progress))
}

func (api *portalApi) studentNav(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetStudentCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting student courses")
	}
	return ctx.JSON(http.StatusOK, portal.StudentNav(ctx.QueryParam("page"), courses))
}

func (api *portalApi) studentCourses(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetStudentCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting student courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *portalApi) joinCourse(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.JoinCourse
	return create(ctx, api.validate, &data, func(c context.Context) (course.Course, error) {
		return api.crsSvc.Join(c, data, usr)
	})
}

func (api *portalApi) studyAid(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	kind, err := studyaid.ParseKind(ctx.QueryParam("type"))
	if err != nil {
		return err
	}
	aid, err := api.studyAidSvc.Get(ctx.Request().Context(), crs.ID, ctx.Param("lessonId"), kind)
	if err != nil {
		return errors.Wrap(err, "building study aid")
	}
	return ctx.JSON(http.StatusOK, aid)
}

func (api *portalApi) studentAssignments(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	asgmts, err := api.assignmentSvc.ListForStudent(ctx.Request().Context(), crs.ID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing student assignments")
	}
	return ctx.JSON(http.StatusOK, asgmts)
}

func (api *portalApi) submitAssignment(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	sub, err := api.assignmentSvc.Submit(ctx.Request().Context(), crs.ID, ctx.Param("assignmentId"), usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *portalApi) studentQuizzes(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	quizzes, err := api.quizSvc.ListForStudent(ctx.Request().Context(), crs.ID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing student quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *portalApi) studentGrades(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	report, err := api.gradeSvc.Report(ctx.Request().Context(), crs.ID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "building grade report")
	}
	return ctx.JSON(http.StatusOK, report)
}
