// Package storage defines the contracts any database backend must satisfy
// to work with this application, plus the errors and filters shared by
// every backend.
//
// Handlers depend only on these interfaces, never on a concrete database,
// so tests and alternative backends plug in without handler changes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/courses-api/internal/types"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity is returned when a write would violate a relational
	// constraint, e.g. a course referencing a student that does not exist.
	ErrIntegrity = errors.New("integrity error")

	// ErrUnavailable is returned when the backend cannot serve the
	// request right now (locked, closed, unreachable). Callers may retry.
	ErrUnavailable = errors.New("storage unavailable")
)

// Filter narrows a list query. Nil fields do not filter.
// Set fields are combined with AND and compared for exact equality.
type Filter struct {
	ID   *int64
	Name *string
}

// StudentStorage is the persistence contract for students.
type StudentStorage interface {
	// CreateStudent inserts a new student and returns it with its
	// generated ID.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// GetStudentByID returns ErrNotFound if no student has that ID.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns matching students in insertion order.
	// Returns an empty slice (not nil) if nothing matches.
	GetStudents(ctx context.Context, filter Filter) ([]types.Student, error)

	// UpdateStudentByID replaces every field of an existing student.
	UpdateStudentByID(ctx context.Context, id int64, student types.Student) (types.Student, error)

	// PatchStudentByID changes only the non-nil fields of patch.
	PatchStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error)

	// DeleteStudentByID removes the student and its course memberships.
	DeleteStudentByID(ctx context.Context, id int64) error
}

// CourseStorage is the persistence contract for courses.
type CourseStorage interface {
	// CreateCourse inserts a course and its student associations in one
	// transaction. Unknown student IDs yield ErrIntegrity.
	CreateCourse(ctx context.Context, course types.Course) (types.Course, error)

	GetCourseByID(ctx context.Context, id int64) (types.Course, error)

	// GetCourses returns matching courses in insertion order.
	GetCourses(ctx context.Context, filter Filter) ([]types.Course, error)

	// UpdateCourseByID replaces the name and the full student set.
	UpdateCourseByID(ctx context.Context, id int64, course types.Course) (types.Course, error)

	PatchCourseByID(ctx context.Context, id int64, patch types.CoursePatch) (types.Course, error)

	DeleteCourseByID(ctx context.Context, id int64) error

	CountCourses(ctx context.Context) (int64, error)
}

// Storage is everything the application needs from a backend.
type Storage interface {
	StudentStorage
	CourseStorage

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
