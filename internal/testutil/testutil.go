// Package testutil builds fixtures for handler and router tests: a migrated
// SQLite store in a temp directory, and factories that create courses and
// students with sensible defaults.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/courses-api/internal/config"
	"github.com/aanand-mishra/courses-api/internal/storage/sqlite"
	"github.com/aanand-mishra/courses-api/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Config returns a valid config pointing at a fresh database file.
func Config(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:         "dev",
		StoragePath: filepath.Join(t.TempDir(), "test.db"),
		HTTPServer: config.HTTPServer{
			Addr:         "localhost:0",
			MaxBodyBytes: 1 << 20,
		},
		Database: config.Database{
			MaxOpenConns:  4,
			MaxIdleConns:  4,
			BusyTimeoutMs: 5000,
		},
	}
}

// NewStore opens a migrated store that is closed when the test ends.
func NewStore(t *testing.T) *sqlite.SQLite {
	t.Helper()

	store, err := sqlite.New(Config(t))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { store.Close() })

	return store
}

// CourseOptions overrides factory defaults. Zero fields get generated
// values; Names, when set, is used index by index.
type CourseOptions struct {
	Names    []string
	Students []int64
}

// MakeCourses creates n courses and returns them in creation order.
func MakeCourses(t *testing.T, store *sqlite.SQLite, n int, opts CourseOptions) []types.Course {
	t.Helper()

	courses := make([]types.Course, 0, n)
	for i := range n {
		name := uniqueName("course")
		if i < len(opts.Names) {
			name = opts.Names[i]
		}

		course, err := store.CreateCourse(context.Background(), types.Course{
			Name:     name,
			Students: opts.Students,
		})
		require.NoError(t, err, "create course %d", i)
		courses = append(courses, course)
	}

	return courses
}

// StudentOptions overrides factory defaults for MakeStudents.
type StudentOptions struct {
	Names     []string
	BirthDate string
}

// MakeStudents creates n students and returns them in creation order.
func MakeStudents(t *testing.T, store *sqlite.SQLite, n int, opts StudentOptions) []types.Student {
	t.Helper()

	students := make([]types.Student, 0, n)
	for i := range n {
		name := uniqueName("student")
		if i < len(opts.Names) {
			name = opts.Names[i]
		}

		student, err := store.CreateStudent(context.Background(), types.Student{
			Name:      name,
			BirthDate: opts.BirthDate,
		})
		require.NoError(t, err, "create student %d", i)
		students = append(students, student)
	}

	return students
}

// StudentIDs extracts the IDs of students, preserving order.
func StudentIDs(students []types.Student) []int64 {
	ids := make([]int64, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}

func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
