package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(`{"name":"python"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "python", body.Name)

	r = httptest.NewRequest(http.MethodPost, "/courses/", nil)
	assert.ErrorIs(t, DecodeJSON(r, &body), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/courses/", strings.NewReader(`{"name":`))
	err := DecodeJSON(r, &body)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBody)
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	r := withID(httptest.NewRequest(http.MethodGet, "/courses/12/", nil), "12")
	id, err := PathID(r)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	r = withID(httptest.NewRequest(http.MethodGet, "/courses/abc/", nil), "abc")
	_, err = PathID(r)

	var invalid *InvalidParamError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "id", invalid.Param)
	assert.Equal(t, "abc", invalid.Value)
}

func TestListFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantID   *int64
		wantName *string
		wantErr  bool
	}{
		{name: "none", query: ""},
		{name: "id", query: "?id=7", wantID: ptr(int64(7))},
		{name: "name", query: "?name=python", wantName: ptr("python")},
		{name: "escaped name", query: "?name=data%20science", wantName: ptr("data science")},
		{name: "both", query: "?id=3&name=go", wantID: ptr(int64(3)), wantName: ptr("go")},
		{name: "empty values ignored", query: "?id=&name="},
		{name: "bad id", query: "?id=seven", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/courses/"+tt.query, nil)

			filter, err := ListFilter(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, filter.ID)
			assert.Equal(t, tt.wantName, filter.Name)
		})
	}
}

func ptr[T any](v T) *T { return &v }
