package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category is the term bucket applied to lessons, assignments, quizzes & grades.
type Category string

const (
	CategoryPrelim  Category = "prelim"
	CategoryMidterm Category = "midterm"
	CategoryFinals  Category = "finals"
)

var (
	Categories = []Category{CategoryPrelim, CategoryMidterm, CategoryFinals}

	categoryLabels = map[Category]string{
		CategoryPrelim:  "Prelim",
		CategoryMidterm: "Midterm",
		CategoryFinals:  "Finals",
	}

	ErrUnknownCategory = errors.New("unknown category")
)

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

// Index is the position of c in Categories, -1 when unknown.
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

func ParseCategory(s string) (Category, error) {
	c := Category(CleanString(s, true /* lower */))
	if !c.IsValid() {
		return "", errors.Wrap(ErrUnknownCategory, fmt.Sprintf("%q", s))
	}
	return c, nil
}

// Categorized is implemented by every entity bucketed by Category.
type Categorized interface {
	GetCategory() Category
}

// Buckets groups items by Category. Every item lands in exactly one bucket.
type Buckets[T Categorized] struct {
	Prelim  []T `json:"prelim"`
	Midterm []T `json:"midterm"`
	Finals  []T `json:"finals"`
	Total   int `json:"total"`
}

// Of returns the bucket of the given category.
func (b Buckets[T]) Of(c Category) []T {
	switch c {
	case CategoryPrelim:
		return b.Prelim
	case CategoryMidterm:
		return b.Midterm
	case CategoryFinals:
		return b.Finals
	}
	return nil
}

// Bucket partitions items by category, preserving their relative order.
func Bucket[T Categorized](items []T) (Buckets[T], error) {
	b := Buckets[T]{
		Prelim:  make([]T, 0),
		Midterm: make([]T, 0),
		Finals:  make([]T, 0),
	}
	for _, item := range items {
		switch cat := item.GetCategory(); cat {
		case CategoryPrelim:
			b.Prelim = append(b.Prelim, item)
		case CategoryMidterm:
			b.Midterm = append(b.Midterm, item)
		case CategoryFinals:
			b.Finals = append(b.Finals, item)
		default:
			return Buckets[T]{}, errors.Wrap(ErrUnknownCategory, fmt.Sprintf("%q", cat))
		}
	}
	b.Total = len(b.Prelim) + len(b.Midterm) + len(b.Finals)
	return b, nil
}
