package api

import (
	"blogcms/internal/entity"
	"blogcms/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) CreateBlog(c *gin.Context) {
	var req entity.BlogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Debug("invalid blog payload")
		InvalidPayload(c)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.blogs.CreatePost(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrContentNotStored) {
			InternalError(c, "blog content not stored")
			return
		}
		StoreError(c, err, "failed to create blog")
		return
	}

	Success(c, http.StatusCreated, entity.BlogCreated{ID: id})
}

func (h *HTTPHandler) GetBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	content, err := h.blogs.GetPost(ctx, id)
	if err != nil {
		NotFound(c, "blog not found")
		return
	}
	Success(c, http.StatusOK, content)
}

func (h *HTTPHandler) ListBlogs(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, "invalid query parameters")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	page, err := h.blogs.GetPostsByPage(ctx, params)
	if err != nil {
		StoreError(c, err, "failed to load blogs")
		return
	}
	Success(c, http.StatusOK, page)
}

func (h *HTTPHandler) DeleteBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	changed, err := h.blogs.DeletePost(ctx, id)
	if err != nil {
		StoreError(c, err, "failed to delete blog")
		return
	}
	if !changed {
		NotFound(c, "blog not found")
		return
	}
	Success(c, http.StatusOK, nil)
}
