package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/types"
)

// CreateStudent inserts a new row into the students table and returns the
// stored record with its auto-generated ID.
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	var id int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// Placeholders (?) keep user input out of the SQL text; the driver
		// sends the values separately.
		result, err := tx.ExecContext(ctx,
			"INSERT INTO students (name, birth_date) VALUES (?, ?)",
			student.Name, student.BirthDate,
		)
		if err != nil {
			return fmt.Errorf("CreateStudent: exec: %w", mapError(err))
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("CreateStudent: last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}

	student.ID = id
	return student, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	return getStudent(ctx, s.Db, id)
}

func getStudent(ctx context.Context, q querier, id int64) (types.Student, error) {
	var student types.Student

	// QueryRow never returns nil; a missing row surfaces as sql.ErrNoRows
	// from Scan.
	err := q.QueryRowContext(ctx,
		"SELECT id, name, birth_date FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.BirthDate)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", mapError(err))
	}

	return student, nil
}

// GetStudents returns matching student rows ordered by ID, which is
// insertion order since IDs come from AUTOINCREMENT.
func (s *SQLite) GetStudents(ctx context.Context, filter storage.Filter) ([]types.Student, error) {
	where, args := whereClause(filter, "s")

	// Explicitly list columns; SELECT * would break Scan's ordering the day
	// a column is added.
	rows, err := s.Db.QueryContext(ctx,
		"SELECT s.id, s.name, s.birth_date FROM students s "+where+" ORDER BY s.id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", mapError(err))
	}
	defer rows.Close()

	// Non-nil so the JSON encoding is [] instead of null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.BirthDate); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", mapError(err))
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data with the provided values and
// returns what is now stored.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	var updated types.Student

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateStudentRow(ctx, tx, id, student); err != nil {
			return fmt.Errorf("UpdateStudentByID: %w", err)
		}

		var err error
		updated, err = getStudent(ctx, tx, id)
		return err
	})

	return updated, err
}

// PatchStudentByID reads the current row, overlays the non-nil patch fields
// and writes it back, all inside one transaction.
func (s *SQLite) PatchStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	var updated types.Student

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getStudent(ctx, tx, id)
		if err != nil {
			return err
		}

		updated = patch.Apply(current)
		if err := updateStudentRow(ctx, tx, id, updated); err != nil {
			return fmt.Errorf("PatchStudentByID: %w", err)
		}
		return nil
	})

	return updated, err
}

// DeleteStudentByID removes a student row by primary key. ON DELETE CASCADE
// drops its course memberships in the same statement.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("DeleteStudentByID: exec: %w", mapError(err))
		}

		return expectOneRow(result, "student", id)
	})
}

func updateStudentRow(ctx context.Context, tx *sql.Tx, id int64, student types.Student) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE students SET name = ?, birth_date = ? WHERE id = ?",
		student.Name, student.BirthDate, id,
	)
	if err != nil {
		return fmt.Errorf("exec: %w", mapError(err))
	}

	return expectOneRow(result, "student", id)
}

// expectOneRow turns "0 rows affected" into storage.ErrNotFound.
func expectOneRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no %s found with id %d: %w", entity, id, storage.ErrNotFound)
	}
	return nil
}
