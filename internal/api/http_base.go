package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) GetBaseInfo(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	info, err := h.base.GetBaseInfo(ctx)
	if err != nil {
		StoreError(c, err, "failed to load base info")
		return
	}
	Success(c, http.StatusOK, info)
}

func (h *HTTPHandler) ListCategories(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	categories, err := h.base.ListCategories(ctx)
	if err != nil {
		StoreError(c, err, "failed to load categories")
		return
	}
	Success(c, http.StatusOK, categories)
}

func (h *HTTPHandler) ListTags(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	tags, err := h.base.ListTags(ctx)
	if err != nil {
		StoreError(c, err, "failed to load tags")
		return
	}
	Success(c, http.StatusOK, tags)
}
