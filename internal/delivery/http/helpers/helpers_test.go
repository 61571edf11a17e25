package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tjbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{query: "", want: domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}},
		{query: "page=3&page_size=5", want: domain.PaginationParams{Page: 3, PageSize: 5}},
		{query: "page=0&page_size=-1", want: domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}},
		{query: "page=x&page_size=y", want: domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}},
		{query: "page_size=1000", want: domain.PaginationParams{Page: DefaultPage, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/tags?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 41, TotalPages: 3}, NewPaginationMeta(1, 20, 41))
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 41).TotalPages)
}

type validatedBody struct {
	Name string `json:"name"`
}

func (v validatedBody) Validate() []string {
	if v.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{name: "valid", body: `{"name":"foo"}`, wantOK: true},
		{name: "unknown field", body: `{"name":"foo","x":1}`},
		{name: "fails validation", body: `{"name":""}`},
		{name: "not json", body: `nope`},
		{name: "trailing object", body: `{"name":"foo"}{"name":"bar"}`},
		{name: "empty body", body: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest validatedBody

			ok := DecodeAndValidate(rr, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if !ok {
				require.Equal(t, http.StatusBadRequest, rr.Code)
				var envelope APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, ErrCodeBadRequest, envelope.Error.Code)
			}
		})
	}
}

func TestDecodeAndValidate_BodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/tags/foo", strings.NewReader(body))
	rr := httptest.NewRecorder()
	var dest validatedBody

	require.False(t, DecodeAndValidate(rr, req, &dest))

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	var envelope APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, ErrCodeTooLarge, envelope.Error.Code)
}

func TestWriteNoContent(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteNoContent(rr)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}
