package core

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id  string
	cat Category
}

func (i item) GetCategory() Category { return i.cat }

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "prelim", want: CategoryPrelim},
		{in: " Midterm ", want: CategoryMidterm},
		{in: "FINALS", want: CategoryFinals},
		{in: "", wantErr: true},
		{in: "summer", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownCategory), "ParseCategory() error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_order(t *testing.T) {
	assert.Equal(t, 0, CategoryPrelim.Index())
	assert.Equal(t, 1, CategoryMidterm.Index())
	assert.Equal(t, 2, CategoryFinals.Index())
	assert.Equal(t, -1, Category("summer").Index())
	assert.Equal(t, "Midterm", CategoryMidterm.Label())
	assert.Equal(t, "", Category("summer").Label())
}

func TestBucket(t *testing.T) {
	items := []item{
		{"a", CategoryFinals},
		{"b", CategoryPrelim},
		{"c", CategoryMidterm},
		{"d", CategoryPrelim},
		{"e", CategoryFinals},
	}

	b, err := Bucket(items)
	require.NoError(t, err)
	assert.Equal(t, []item{items[1], items[3]}, b.Prelim)
	assert.Equal(t, []item{items[2]}, b.Midterm)
	assert.Equal(t, []item{items[0], items[4]}, b.Finals)
	assert.Equal(t, len(items), b.Total)
	assert.Equal(t, b.Finals, b.Of(CategoryFinals))
	assert.Nil(t, b.Of("summer"))

	t.Run("empty", func(t *testing.T) {
		b, err := Bucket([]item(nil))
		require.NoError(t, err)
		assert.NotNil(t, b.Prelim)
		assert.NotNil(t, b.Midterm)
		assert.NotNil(t, b.Finals)
		assert.Zero(t, b.Total)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := Bucket(append(items, item{"f", "summer"}))
		assert.True(t, errors.Is(err, ErrUnknownCategory), "Bucket() error = %v", err)
	})
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Graphs 101", CleanString("  Graphs 101\n"))
	assert.Equal(t, "graphs 101", CleanString("  Graphs 101\n", true))
	assert.True(t, ContainsFold("Alice Johnson", "JOHN"))
	assert.False(t, ContainsFold("Alice Johnson", "bob"))
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), 0))
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	start := time.Now()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
