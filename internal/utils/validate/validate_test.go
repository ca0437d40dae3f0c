package validate

import (
	"errors"
	"testing"

	"github.com/aanand-mishra/courses-api/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)

	out := make(map[string]string)
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func TestCourse(t *testing.T) {
	assert.NoError(t, Struct(types.Course{Name: "python", Students: []int64{}}))
	assert.NoError(t, Struct(types.Course{Name: "python"}))

	err := Struct(types.Course{Students: []int64{1}})
	assert.Equal(t, map[string]string{"name": "required"}, fieldsOf(t, err))

	err = Struct(types.Course{Name: "go", Students: []int64{1, 0}})
	assert.Equal(t, map[string]string{"students[1]": "gt"}, fieldsOf(t, err))
}

func TestCoursePatch(t *testing.T) {
	assert.NoError(t, Struct(types.CoursePatch{}))

	empty := ""
	err := Struct(types.CoursePatch{Name: &empty})
	assert.Equal(t, map[string]string{"name": "min"}, fieldsOf(t, err))

	bad := []int64{-1}
	err = Struct(types.CoursePatch{Students: &bad})
	assert.Contains(t, fieldsOf(t, err), "students[0]")
}

func TestStudent(t *testing.T) {
	assert.NoError(t, Struct(types.Student{Name: "Ann"}))
	assert.NoError(t, Struct(types.Student{Name: "Ann", BirthDate: "2001-02-03"}))

	err := Struct(types.Student{Name: "Ann", BirthDate: "03/02/2001"})
	assert.Equal(t, map[string]string{"birth_date": "datetime"}, fieldsOf(t, err))
}
