package sql

import (
	"blogcms/internal/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

var errNotInitialised = errors.New("repository not initialised")

// GormRepository implements Repository on top of the resilient Client.
type GormRepository struct {
	client *Client
}

// NewGormRepository creates a new repository instance
func NewGormRepository(client *Client) *GormRepository {
	return &GormRepository{client: client}
}

// Client exposes the underlying relational client.
func (r *GormRepository) Client() *Client {
	if r == nil {
		return nil
	}
	return r.client
}

// Ping reports whether the store answers the liveness check.
func (r *GormRepository) Ping(ctx context.Context) bool {
	if r == nil || r.client == nil {
		return false
	}
	return r.client.Ping(ctx)
}

// Close releases the connection pool.
func (r *GormRepository) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *GormRepository) session(ctx context.Context) (*gorm.DB, error) {
	if r == nil || r.client == nil {
		return nil, errNotInitialised
	}
	return r.client.Session(ctx)
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// wrapErr keeps not-found distinguishable and turns other driver faults
// into QueryError.
func wrapErr(statement string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return newQueryError(statement, err)
}
