// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  controls how the field appears on the wire.
//  2. validate:"..." holds rules checked by go-playground/validator.
package types

// Student represents a learner. Courses reference students by ID.
type Student struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"       validate:"required,max=255"`
	BirthDate string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// StudentPatch is the body of PATCH /students/{id}/.
// A nil field means "leave unchanged".
type StudentPatch struct {
	Name      *string `json:"name"       validate:"omitempty,min=1,max=255"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// Course is a named entity associated with zero or more students.
//
// Students is a flat, ascending list of student IDs. It is never nil
// when returned by storage so it encodes as [] rather than null.
type Course struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"     validate:"required,max=255"`
	Students []int64 `json:"students" validate:"dive,gt=0"`
}

// CoursePatch is the body of PATCH /courses/{id}/.
// A nil field means "leave unchanged"; a non-nil empty Students clears
// every association.
type CoursePatch struct {
	Name     *string  `json:"name"     validate:"omitempty,min=1,max=255"`
	Students *[]int64 `json:"students" validate:"omitempty,dive,gt=0"`
}

// Apply returns c with every non-nil field of p copied over it.
func (p CoursePatch) Apply(c Course) Course {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Students != nil {
		c.Students = append([]int64(nil), (*p.Students)...)
	}
	return c
}

// Apply returns s with every non-nil field of p copied over it.
func (p StudentPatch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.BirthDate != nil {
		s.BirthDate = *p.BirthDate
	}
	return s
}
