package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tjbot/internal/delivery/http/helpers"
	"tjbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagAdminService implements domain.TagAdminService for handler tests.
type fakeTagAdminService struct {
	tags       map[string]string
	listResult []*domain.Tag
	listTotal  int
	listErr    error
	getErr     error
	saveErr    error
	deleteErr  error
	lastParams domain.PaginationParams
}

func (f *fakeTagAdminService) ListTags(_ context.Context, params domain.PaginationParams) ([]*domain.Tag, int, error) {
	f.lastParams = params
	return f.listResult, f.listTotal, f.listErr
}

func (f *fakeTagAdminService) GetTag(_ context.Context, id string) (*domain.Tag, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	content, ok := f.tags[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Tag{ID: id, Content: content}, nil
}

func (f *fakeTagAdminService) SaveTag(_ context.Context, id, content string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tags[id] = content
	return nil
}

func (f *fakeTagAdminService) DeleteTag(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.tags[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.tags, id)
	return nil
}

func newTagMux(svc *fakeTagAdminService) *http.ServeMux {
	ctrl := NewTagController(testLogger, svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/tags", ctrl.ListTags)
	mux.HandleFunc("GET /admin/tags/{id}", ctrl.GetTag)
	mux.HandleFunc("PUT /admin/tags/{id}", ctrl.SaveTag)
	mux.HandleFunc("DELETE /admin/tags/{id}", ctrl.DeleteTag)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "http://test"+target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestTagController_ListTags(t *testing.T) {
	svc := &fakeTagAdminService{
		listResult: []*domain.Tag{{ID: "a", Content: "1"}, {ID: "b", Content: "2"}},
		listTotal:  5,
	}
	rr := serve(newTagMux(svc), http.MethodGet, "/admin/tags?page=2&page_size=2", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, svc.lastParams)

	var body ListTagsSuccessResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Nil(t, body.Error)
	assert.Len(t, body.Data.Items, 2)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}, body.Data.Pagination)
}

func TestTagController_ListTagsError(t *testing.T) {
	svc := &fakeTagAdminService{listErr: errors.New("db down")}
	rr := serve(newTagMux(svc), http.MethodGet, "/admin/tags", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, domain.PaginationParams{Page: helpers.DefaultPage, PageSize: helpers.DefaultPageSize}, svc.lastParams)
}

func TestTagController_GetTag(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeTagAdminService
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "found", svc: &fakeTagAdminService{tags: map[string]string{"foo": "bar"}}, path: "/admin/tags/foo", wantStatus: http.StatusOK},
		{name: "not found", svc: &fakeTagAdminService{tags: map[string]string{}}, path: "/admin/tags/foo", wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "store error", svc: &fakeTagAdminService{getErr: errors.New("db down")}, path: "/admin/tags/foo", wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newTagMux(tt.svc), http.MethodGet, tt.path, "")

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode == "" {
				var body TagSuccessResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, &domain.Tag{ID: "foo", Content: "bar"}, body.Data)
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestTagController_SaveTag(t *testing.T) {
	svc := &fakeTagAdminService{tags: map[string]string{}}
	mux := newTagMux(svc)

	rr := serve(mux, http.MethodPut, "/admin/tags/foo", `{"content":"bar"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bar", svc.tags["foo"])

	rr = serve(mux, http.MethodPut, "/admin/tags/foo", `{"content":"  "}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(mux, http.MethodPut, "/admin/tags/foo", `{"content":"x","extra":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	svc.saveErr = errors.New("db down")
	rr = serve(mux, http.MethodPut, "/admin/tags/foo", `{"content":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTagController_DeleteTag(t *testing.T) {
	svc := &fakeTagAdminService{tags: map[string]string{"foo": "bar"}}
	mux := newTagMux(svc)

	rr := serve(mux, http.MethodDelete, "/admin/tags/foo", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotContains(t, svc.tags, "foo")

	rr = serve(mux, http.MethodDelete, "/admin/tags/foo", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	svc.deleteErr = errors.New("db down")
	rr = serve(mux, http.MethodDelete, "/admin/tags/foo", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
