package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage records calls and returns canned results.
type fakeStorage struct {
	err error

	gotFilter storage.Filter
	gotCourse types.Course
	gotPatch  types.CoursePatch
	gotID     int64
	called    bool
}

func (f *fakeStorage) CreateCourse(_ context.Context, c types.Course) (types.Course, error) {
	f.called, f.gotCourse = true, c
	c.ID = 1
	return c, f.err
}

func (f *fakeStorage) GetCourseByID(_ context.Context, id int64) (types.Course, error) {
	f.called, f.gotID = true, id
	return types.Course{ID: id, Name: "go", Students: []int64{}}, f.err
}

func (f *fakeStorage) GetCourses(_ context.Context, filter storage.Filter) ([]types.Course, error) {
	f.called, f.gotFilter = true, filter
	return []types.Course{}, f.err
}

func (f *fakeStorage) UpdateCourseByID(_ context.Context, id int64, c types.Course) (types.Course, error) {
	f.called, f.gotID, f.gotCourse = true, id, c
	c.ID = id
	return c, f.err
}

func (f *fakeStorage) PatchCourseByID(_ context.Context, id int64, p types.CoursePatch) (types.Course, error) {
	f.called, f.gotID, f.gotPatch = true, id, p
	return p.Apply(types.Course{ID: id, Name: "go", Students: []int64{}}), f.err
}

func (f *fakeStorage) DeleteCourseByID(_ context.Context, id int64) error {
	f.called, f.gotID = true, id
	return f.err
}

func (f *fakeStorage) CountCourses(context.Context) (int64, error) { return 0, f.err }

func newRouter(s storage.CourseStorage) http.Handler {
	r := chi.NewRouter()
	r.Get("/courses/", GetList(s))
	r.Post("/courses/", New(s))
	r.Get("/courses/{id}/", GetByID(s))
	r.Put("/courses/{id}/", Update(s))
	r.Patch("/courses/{id}/", Patch(s))
	r.Delete("/courses/{id}/", Delete(s))
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetList(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodGet, "/courses/?id=4&name=go", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	require.NotNil(t, fake.gotFilter.ID)
	assert.Equal(t, int64(4), *fake.gotFilter.ID)
	require.NotNil(t, fake.gotFilter.Name)
	assert.Equal(t, "go", *fake.gotFilter.Name)
}

func TestGetListRejectsBadID(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodGet, "/courses/?id=abc", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, fake.called)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantStored bool
	}{
		{"valid", `{"name":"python","students":[]}`, nil, http.StatusCreated, true},
		{"students omitted", `{"name":"python"}`, nil, http.StatusCreated, true},
		{"empty body", "", nil, http.StatusBadRequest, false},
		{"malformed", `{"name":`, nil, http.StatusBadRequest, false},
		{"wrong type", `{"name":5}`, nil, http.StatusBadRequest, false},
		{"missing name", `{"students":[]}`, nil, http.StatusBadRequest, false},
		{"bad student id", `{"name":"go","students":[0]}`, nil, http.StatusBadRequest, false},
		{"unknown student", `{"name":"go","students":[9]}`, fmt.Errorf("x: %w", storage.ErrIntegrity), http.StatusBadRequest, true},
		{"store down", `{"name":"go"}`, storage.ErrUnavailable, http.StatusServiceUnavailable, true},
		{"store broken", `{"name":"go"}`, errors.New("boom"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStorage{err: tt.storeErr}
			rr := do(t, newRouter(fake), http.MethodPost, "/courses/", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantStored, fake.called)
		})
	}
}

func TestNewReturnsRepresentation(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodPost, "/courses/", `{"id":99,"name":"python","students":[3]}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":1,"name":"python","students":[3]}`, rr.Body.String())
	assert.Equal(t, "python", fake.gotCourse.Name)
}

func TestGetByID(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodGet, "/courses/8/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(8), fake.gotID)

	fake = &fakeStorage{err: storage.ErrNotFound}
	rr = do(t, newRouter(fake), http.MethodGet, "/courses/8/", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, newRouter(fake), http.MethodGet, "/courses/eight/", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdate(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodPut, "/courses/2/", `{"name":"rust","students":[1]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(2), fake.gotID)
	assert.Equal(t, types.Course{Name: "rust", Students: []int64{1}}, fake.gotCourse)

	fake = &fakeStorage{}
	rr = do(t, newRouter(fake), http.MethodPut, "/courses/2/", `{"students":[1]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "PUT requires every field")
	assert.False(t, fake.called)
}

func TestPatch(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodPatch, "/courses/3/", `{"name":"python"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":3,"name":"python","students":[]}`, rr.Body.String())
	assert.Nil(t, fake.gotPatch.Students)

	fake = &fakeStorage{err: storage.ErrNotFound}
	rr = do(t, newRouter(fake), http.MethodPatch, "/courses/3/", `{"name":"python"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	fake = &fakeStorage{}
	rr = do(t, newRouter(fake), http.MethodPatch, "/courses/3/", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, fake.called)
}

func TestDelete(t *testing.T) {
	fake := &fakeStorage{}
	rr := do(t, newRouter(fake), http.MethodDelete, "/courses/5/", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
	assert.Equal(t, int64(5), fake.gotID)

	fake = &fakeStorage{err: fmt.Errorf("gone: %w", storage.ErrNotFound)}
	rr = do(t, newRouter(fake), http.MethodDelete, "/courses/5/", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
