package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	inmemdb "github.com/trezcool/dynamiclms/storage/database/inmem"
	"github.com/trezcool/dynamiclms/tests"
)

func TestService(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc := assignment.NewService(inmemdb.NewAssignmentRepository(db))
	ctx := context.Background()

	due := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "1", assignment.NewAssignment{Title: "Graph Coloring", Category: core.CategoryFinals, DueDate: &due})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list, err := svc.List(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
	assert.Len(t, list.Prelim, 2)
	assert.Len(t, list.Midterm, 1)
	require.Len(t, list.Finals, 1)
	assert.Equal(t, &due, list.Finals[0].DueDate)

	views, err := svc.ListForStudent(ctx, "1", "student-1")
	require.NoError(t, err)
	assert.True(t, views.Prelim[0].Submitted)
	require.NotNil(t, views.Prelim[0].SubmittedAt)
	assert.False(t, views.Prelim[1].Submitted)
	assert.Nil(t, views.Prelim[1].SubmittedAt)

	sub, err := svc.Submit(ctx, "1", created.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, sub.AssignmentID)

	_, err = svc.Submit(ctx, "1", created.ID, "student-1")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, assignment.ErrAlreadySubmitted, vErr.Err)
	assert.Empty(t, vErr.Fields)

	_, err = svc.Submit(ctx, "2", created.ID, "student-1")
	assert.Equal(t, assignment.ErrNotFound, errors.Cause(err))
}

func TestNewAssignment_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	due := time.Date(2024, 3, 16, 2, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	na := assignment.NewAssignment{
		Title: " Graph Coloring ", Category: " FINALS ", DueDate: &due,
		PDFRef: core.PDFRef{PDFFileName: " coloring.pdf ", PDFContentType: "Application/PDF"},
	}
	require.NoError(t, na.Validate(validate))
	assert.Equal(t, "Graph Coloring", na.Title)
	assert.Equal(t, core.CategoryFinals, na.Category)
	assert.Equal(t, "coloring.pdf", na.PDFFileName)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC), *na.DueDate)

	na = assignment.NewAssignment{Title: "Essay", Category: core.CategoryPrelim, PDFRef: core.PDFRef{PDFFileName: "essay.docx", PDFContentType: "application/msword"}}
	assert.Error(t, na.Validate(validate))
}
