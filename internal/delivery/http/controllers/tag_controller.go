package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tjbot/internal/delivery/http/helpers"
	"tjbot/internal/delivery/http/middleware"
	"tjbot/internal/domain"
)

// ListTagsResponse is the data of GET /admin/tags.
type ListTagsResponse struct {
	Items      []*domain.Tag          `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListTagsSuccessResponse is the success response envelope for GET /admin/tags (200).
type ListTagsSuccessResponse struct {
	Data  ListTagsResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TagSuccessResponse is the success response envelope for GET /admin/tags/{id} (200).
type TagSuccessResponse struct {
	Data  *domain.Tag       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SaveTagRequest is the request body for PUT /admin/tags/{id}.
type SaveTagRequest struct {
	Content string `json:"content"`
}

// Validate implements Validator.
func (s SaveTagRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Content) == "" {
		errs = append(errs, "content is required")
	}
	return errs
}

type TagController struct {
	Logger  *slog.Logger
	Service domain.TagAdminService
}

func NewTagController(logger *slog.Logger, svc domain.TagAdminService) *TagController {
	return &TagController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTags godoc
// @Summary List tags
// @Description Returns stored tags ordered by id, paginated.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTagsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tags [get]
func (c *TagController) ListTags(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	tags, total, err := c.Service.ListTags(r.Context(), params)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTagsResponse{
		Items:      tags,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetTag godoc
// @Summary Get a tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Success 200 {object} controllers.TagSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tags/{id} [get]
func (c *TagController) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := c.Service.GetTag(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "tag not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// SaveTag godoc
// @Summary Create or replace a tag
// @Description Writes the tag regardless of whether it exists. Not subject to the moderator role check.
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Param body body SaveTagRequest true "Tag content"
// @Success 200 {object} controllers.TagSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 413 {object} helpers.APIResponse "error.code: request_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tags/{id} [put]
func (c *TagController) SaveTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req SaveTagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SaveTag(r.Context(), id, req.Content); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.internalError(w, r, err)
		return
	}
	subject, _ := middleware.SubjectFromContext(r.Context())
	c.Logger.InfoContext(r.Context(), "tag saved via admin api", "tag_id", id, "subject", subject)
	helpers.WriteJSONSuccess(w, http.StatusOK, &domain.Tag{ID: id, Content: req.Content})
}

// DeleteTag godoc
// @Summary Delete a tag
// @Tags tags
// @Security BearerAuth
// @Param id path string true "Tag id"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tags/{id} [delete]
func (c *TagController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.Service.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "tag not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	subject, _ := middleware.SubjectFromContext(r.Context())
	c.Logger.InfoContext(r.Context(), "tag deleted via admin api", "tag_id", id, "subject", subject)
	helpers.WriteNoContent(w)
}

func (c *TagController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}
