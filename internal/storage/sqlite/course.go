package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/types"
)

// CreateCourse inserts the course row and its student associations in a
// single transaction.
func (s *SQLite) CreateCourse(ctx context.Context, course types.Course) (types.Course, error) {
	var created types.Course

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "INSERT INTO courses (name) VALUES (?)", course.Name)
		if err != nil {
			return fmt.Errorf("CreateCourse: exec: %w", mapError(err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("CreateCourse: last insert id: %w", err)
		}

		if err := setCourseStudents(ctx, tx, id, course.Students); err != nil {
			return fmt.Errorf("CreateCourse: %w", err)
		}

		created, err = getCourse(ctx, tx, id)
		return err
	})

	return created, err
}

// GetCourseByID fetches one course together with its student IDs.
func (s *SQLite) GetCourseByID(ctx context.Context, id int64) (types.Course, error) {
	return getCourse(ctx, s.Db, id)
}

// GetCourses returns matching courses ordered by ID (insertion order).
func (s *SQLite) GetCourses(ctx context.Context, filter storage.Filter) ([]types.Course, error) {
	courses, err := queryCourses(ctx, s.Db, filter)
	if err != nil {
		return nil, fmt.Errorf("GetCourses: %w", err)
	}
	return courses, nil
}

// UpdateCourseByID replaces the course name and its whole student set.
func (s *SQLite) UpdateCourseByID(ctx context.Context, id int64, course types.Course) (types.Course, error) {
	var updated types.Course

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := writeCourse(ctx, tx, id, course); err != nil {
			return fmt.Errorf("UpdateCourseByID: %w", err)
		}

		var err error
		updated, err = getCourse(ctx, tx, id)
		return err
	})

	return updated, err
}

// PatchCourseByID overlays the non-nil fields of patch onto the stored
// course. Students, when given, replace the whole set.
func (s *SQLite) PatchCourseByID(ctx context.Context, id int64, patch types.CoursePatch) (types.Course, error) {
	var updated types.Course

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getCourse(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := writeCourse(ctx, tx, id, patch.Apply(current)); err != nil {
			return fmt.Errorf("PatchCourseByID: %w", err)
		}

		updated, err = getCourse(ctx, tx, id)
		return err
	})

	return updated, err
}

// DeleteCourseByID removes a course permanently. Its associations go with it
// through ON DELETE CASCADE.
func (s *SQLite) DeleteCourseByID(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("DeleteCourseByID: exec: %w", mapError(err))
		}

		return expectOneRow(result, "course", id)
	})
}

// CountCourses returns the number of stored courses.
func (s *SQLite) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n); err != nil {
		return 0, fmt.Errorf("CountCourses: %w", mapError(err))
	}
	return n, nil
}

func getCourse(ctx context.Context, q querier, id int64) (types.Course, error) {
	courses, err := queryCourses(ctx, q, storage.Filter{ID: &id})
	if err != nil {
		return types.Course{}, fmt.Errorf("GetCourseByID: %w", err)
	}
	if len(courses) == 0 {
		return types.Course{}, fmt.Errorf("no course found with id %d: %w", id, storage.ErrNotFound)
	}
	return courses[0], nil
}

// queryCourses reads course rows and their associations in one statement,
// so a concurrent write is seen either entirely or not at all.
func queryCourses(ctx context.Context, q querier, filter storage.Filter) ([]types.Course, error) {
	where, args := whereClause(filter, "c")

	rows, err := q.QueryContext(ctx,
		"SELECT c.id, c.name, cs.student_id FROM courses c "+
			"LEFT JOIN course_students cs ON cs.course_id = c.id "+where+
			" ORDER BY c.id, cs.student_id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", mapError(err))
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		var (
			id        int64
			name      string
			studentID sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &studentID); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if n := len(courses); n == 0 || courses[n-1].ID != id {
			courses = append(courses, types.Course{ID: id, Name: name, Students: []int64{}})
		}
		if studentID.Valid {
			last := &courses[len(courses)-1]
			last.Students = append(last.Students, studentID.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", mapError(err))
	}

	return courses, nil
}

func writeCourse(ctx context.Context, tx *sql.Tx, id int64, course types.Course) error {
	result, err := tx.ExecContext(ctx, "UPDATE courses SET name = ? WHERE id = ?", course.Name, id)
	if err != nil {
		return fmt.Errorf("exec: %w", mapError(err))
	}

	if err := expectOneRow(result, "course", id); err != nil {
		return err
	}

	return setCourseStudents(ctx, tx, id, course.Students)
}

// setCourseStudents makes the course's association set equal to studentIDs.
// Duplicates collapse; any ID without a student row is an integrity error
// and nothing is written.
func setCourseStudents(ctx context.Context, tx *sql.Tx, courseID int64, studentIDs []int64) error {
	ids := slices.Clone(studentIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	if err := checkStudentsExist(ctx, tx, ids); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM course_students WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("clear students: %w", mapError(err))
	}

	for _, studentID := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO course_students (course_id, student_id) VALUES (?, ?)",
			courseID, studentID,
		); err != nil {
			return fmt.Errorf("add student %d: %w", studentID, mapError(err))
		}
	}

	return nil
}

// maxCheckBatch keeps each IN list well under SQLite's bound-variable limit.
const maxCheckBatch = 500

// checkStudentsExist reports the first ID in ids (sorted, unique) that has
// no student row. The foreign key would reject it too, but without saying
// which ID was wrong.
func checkStudentsExist(ctx context.Context, tx *sql.Tx, ids []int64) error {
	for batch := range slices.Chunk(ids, maxCheckBatch) {
		if err := checkStudentBatch(ctx, tx, batch); err != nil {
			return err
		}
	}
	return nil
}

func checkStudentBatch(ctx context.Context, tx *sql.Tx, ids []int64) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM students WHERE id IN ("+placeholders(len(ids))+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("check students: %w", mapError(err))
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("check students: scan: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("check students: %w", mapError(err))
	}

	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("%w: invalid student id %d: object does not exist", storage.ErrIntegrity, id)
		}
	}

	return nil
}
