package api

import (
	"blogcms/internal/model"
	"blogcms/internal/service"
	"blogcms/internal/storage"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRequestTimeout = 5 * time.Second

// Dependencies is the set of store clients built once at startup and shared
// by every request. Cache may be nil.
type Dependencies struct {
	Repo     model.Repository
	Contents service.ContentStore
	Cache    service.Cache
	Storage  storage.Storage

	// RequestTimeout bounds every handler. It must leave room for a full
	// relational reconnect cycle, see config.Config.RequestTimeout.
	RequestTimeout time.Duration
}

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	deps    Dependencies
	timeout time.Duration

	// 服务层
	blogs *service.BlogService
	base  *service.BaseService
	users *service.UserService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(deps Dependencies) (*HTTPHandler, error) {
	if deps.Repo == nil {
		return nil, errors.New("relational repository is required")
	}
	if deps.Contents == nil {
		return nil, errors.New("content store is required")
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPHandler{
		deps:    deps,
		timeout: timeout,
		blogs:   service.NewBlogService(deps.Repo, deps.Contents, deps.Cache),
		base:    service.NewBaseService(deps.Repo, deps.Cache),
		users:   service.NewUserService(deps.Repo),
	}, nil
}

// RegisterRoutes mounts every endpoint on r.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	blogs := r.Group("/blogs")
	blogs.POST("/", h.CreateBlog)
	blogs.GET("/", h.ListBlogs)
	blogs.POST("/assets", h.UploadAsset)
	blogs.GET("/:id", h.GetBlog)
	blogs.DELETE("/:id", h.DeleteBlog)

	base := r.Group("/base")
	base.GET("/", h.GetBaseInfo)
	base.GET("/blog/category", h.ListCategories)
	base.GET("/blog/tag", h.ListTags)

	users := r.Group("/user")
	users.POST("/", h.CreateUser)
	users.GET("/", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.DELETE("/:id", h.DeleteUser)
}

// Health reports the liveness of every store. The relational store is
// required; the others only degrade the status.
func (h *HTTPHandler) Health(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	checks := map[string]bool{
		"relational": h.deps.Repo.Ping(ctx),
		"document":   h.deps.Contents.Ping(ctx),
	}
	if h.deps.Cache != nil {
		checks["cache"] = h.deps.Cache.Ping(ctx)
	}

	status := "ok"
	code := http.StatusOK
	for _, healthy := range checks {
		if !healthy {
			status = "degraded"
		}
	}
	if !checks["relational"] {
		status = "down"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks})
}

func (h *HTTPHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
