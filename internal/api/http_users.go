package api

import (
	"blogcms/internal/entity"
	"blogcms/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, "invalid query parameters")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	users, err := h.users.ListUsers(ctx, params)
	if err != nil {
		StoreError(c, err, "failed to load users")
		return
	}
	Success(c, http.StatusOK, users)
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.users.CreateUser(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBirthDay) {
			BadRequest(c, err.Error())
			return
		}
		StoreError(c, err, "failed to create user")
		return
	}
	Success(c, http.StatusCreated, gin.H{"id": id})
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, "user not found")
			return
		}
		StoreError(c, err, "failed to load user")
		return
	}
	Success(c, http.StatusOK, user)
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, "user not found")
			return
		}
		StoreError(c, err, "failed to delete user")
		return
	}
	Success(c, http.StatusOK, nil)
}
