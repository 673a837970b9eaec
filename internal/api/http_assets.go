package api

import (
	"blogcms/internal/storage"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadAsset stores an attachment referenced from post content.
func (h *HTTPHandler) UploadAsset(c *gin.Context) {
	if h.deps.Storage == nil {
		Failure(c, http.StatusServiceUnavailable, "asset storage not available")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		BadRequest(c, "failed to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxAssetSize+1))
	if err != nil {
		BadRequest(c, "failed to read file")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	asset, err := h.deps.Storage.Put(ctx, data, storage.PutOptions{
		Scope:       strings.TrimSpace(c.PostForm("blog_id")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmptyAsset) || errors.Is(err, storage.ErrAssetTooLarge) {
			BadRequest(c, err.Error())
			return
		}
		logrus.WithError(err).WithField("file", header.Filename).Error("failed to store asset")
		InternalError(c, "failed to store asset")
		return
	}

	Success(c, http.StatusCreated, asset)
}
