package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/portal"
	"github.com/trezcool/dynamiclms/core/quiz"
)

func registerProfessorAPI(g *echo.Group, deps ServerDeps) {
	api := newPortalApi(deps)

	g.GET("/dashboard", api.dashboard)
	g.GET("/nav", api.professorNav)
	g.GET("/profile", api.profile)
	g.GET("/courses", api.professorCourses)
	g.POST("/courses", api.createCourse)

	// detail endpoints
	dg := g.Group("/courses/:id", courseMiddleware(api.crsSvc))
	dg.GET("", api.retrieveCourse)
	dg.GET("/nav", api.courseNav)
	dg.GET("/classlist", api.classlist)
	dg.GET("/content", api.listLessons)
	dg.POST("/content", api.createLesson)
	dg.GET("/assignments", api.listAssignments)
	dg.POST("/assignments", api.createAssignment)
	dg.GET("/quizzes", api.listQuizzes)
	dg.POST("/quizzes", api.createQuiz)
	dg.POST("/quizzes/:quizId/results", api.recordResult)
	dg.GET("/quiz-bank", api.listBank)
	dg.POST("/quiz-bank", api.createQuestion)
	dg.POST("/quiz-bank/generate", api.generateQuestions)
	dg.POST("/grades", api.recordGrade)
}

// Handlers

func (api *portalApi) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetProfessorCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting professor courses")
	}

	summaries := make([]portal.CourseSummary, len(courses))
	g, gctx := errgroup.WithContext(ctx.Request().Context())
	for i, crs := range courses {
		i, crs := i, crs
		g.Go(func() error {
			summary, err := api.courseSummary(gctx, crs)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, portal.NewDashboard(usr.ID, usr.Name, summaries))
}

func (api *portalApi) courseSummary(ctx context.Context, crs course.Course) (portal.CourseSummary, error) {
	lessons, err := api.lessonSvc.Query(ctx, crs.ID)
	if err != nil {
		return portal.CourseSummary{}, errors.Wrap(err, "querying lessons")
	}
	asgmts, err := api.assignmentSvc.Query(ctx, crs.ID)
	if err != nil {
		return portal.CourseSummary{}, errors.Wrap(err, "querying assignments")
	}
	quizzes, err := api.quizSvc.Query(ctx, crs.ID)
	if err != nil {
		return portal.CourseSummary{}, errors.Wrap(err, "querying quizzes")
	}
	return portal.NewCourseSummary(crs, len(lessons), len(asgmts), len(quizzes)), nil
}

func (api *portalApi) professorNav(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetProfessorCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting professor courses")
	}
	return ctx.JSON(http.StatusOK, portal.ProfessorNav(ctx.QueryParam("page"), courses))
}

func (api *portalApi) professorCourses(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	courses, err := api.crsSvc.GetProfessorCourses(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting professor courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *portalApi) createCourse(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data course.NewCourse
	return create(ctx, api.validate, &data, func(c context.Context) (course.Course, error) {
		return api.crsSvc.Create(c, data, usr)
	})
}

func (api *portalApi) classlist(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var filter course.RosterFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to RosterFilter")
	}
	filter.Clean()

	students, err := api.crsSvc.GetStudents(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "getting students")
	}
	return ctx.JSON(http.StatusOK, course.SearchRoster(students, filter.Search))
}

func (api *portalApi) createLesson(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data lesson.NewLesson
	return create(ctx, api.validate, &data, func(c context.Context) (lesson.Lesson, error) {
		return api.lessonSvc.Create(c, crs.ID, data)
	})
}

func (api *portalApi) listAssignments(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	asgmts, err := api.assignmentSvc.List(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	return ctx.JSON(http.StatusOK, asgmts)
}

func (api *portalApi) createAssignment(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	return create(ctx, api.validate, &data, func(c context.Context) (assignment.Assignment, error) {
		return api.assignmentSvc.Create(c, crs.ID, data)
	})
}

func (api *portalApi) listQuizzes(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	quizzes, err := api.quizSvc.List(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "listing quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *portalApi) createQuiz(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewQuiz
	return create(ctx, api.validate, &data, func(c context.Context) (quiz.Quiz, error) {
		return api.quizSvc.CreateQuiz(c, crs.ID, data)
	})
}

func (api *portalApi) recordResult(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewResult
	return create(ctx, api.validate, &data, func(c context.Context) (quiz.Result, error) {
		if !crs.HasStudent(data.StudentID) {
			return quiz.Result{}, errNotEnrolled()
		}
		return api.quizSvc.RecordResult(c, crs.ID, ctx.Param("quizId"), data)
	})
}

func (api *portalApi) listBank(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	typ := quiz.QuestionType(core.CleanString(ctx.QueryParam("type"), true /* lower */))
	if typ != "" && !typ.IsQuizType() {
		return core.NewFieldValidationError("type", "must be one of multiple_choice, true_false, fill_blank or mixed")
	}
	bank, err := api.quizSvc.ListBank(ctx.Request().Context(), crs.ID, typ)
	if err != nil {
		return errors.Wrap(err, "listing quiz bank")
	}
	return ctx.JSON(http.StatusOK, bank)
}

func (api *portalApi) createQuestion(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewQuestion
	return create(ctx, api.validate, &data, func(c context.Context) (quiz.Question, error) {
		return api.quizSvc.CreateQuestion(c, crs.ID, data)
	})
}

func (api *portalApi) generateQuestions(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data quiz.GenerateRequest
	return create(ctx, api.validate, &data, func(c context.Context) ([]quiz.Question, error) {
		return api.quizSvc.Generate(c, crs.ID, data)
	})
}

func (api *portalApi) recordGrade(ctx echo.Context) error {
	crs, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	var data grade.NewGrade
	return create(ctx, api.validate, &data, func(c context.Context) (grade.Grade, error) {
		if !crs.HasStudent(data.StudentID) {
			return grade.Grade{}, errNotEnrolled()
		}
		return api.gradeSvc.Record(c, crs.ID, data)
	})
}

func errNotEnrolled() error {
	return core.NewFieldValidationError("student_id", "this student is not enrolled in the course")
}
