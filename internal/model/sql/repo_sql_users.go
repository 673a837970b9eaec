package sql

import (
	"blogcms/internal/entity"
	"context"
	"fmt"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	user.IsActive = true
	return wrapErr("INSERT INTO user", db.Create(user).Error)
}

// GetUserByID loads an active user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if id == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var user entity.DbUser
	if err := db.Where("is_active = ?", true).First(&user, id).Error; err != nil {
		return nil, wrapErr("SELECT * FROM user", err)
	}
	return &user, nil
}

// ListUsers returns paginated active users.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, nil, err
	}

	query := db.Model(&entity.DbUser{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, wrapErr("SELECT COUNT(*) FROM user", err)
	}

	page := 1
	pageSize := 10
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var users []entity.DbUser
	if err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, nil, wrapErr("SELECT * FROM user", err)
	}

	meta := r.calculatePagination(total, page, pageSize)
	return users, meta, nil
}

// DeactivateUser soft-deletes an active user and reports whether a row
// changed.
func (r *GormRepository) DeactivateUser(ctx context.Context, id uint) (bool, error) {
	if r == nil || r.client == nil {
		return false, errNotInitialised
	}
	if id == 0 {
		return false, fmt.Errorf("invalid user id")
	}
	res, err := r.client.Execute(ctx, r.deactivateStatement(), false, id, true)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// deactivateStatement quotes the table name; user is reserved in postgres.
func (r *GormRepository) deactivateStatement() string {
	if r.client.Dialect() == "mysql" {
		return "UPDATE `user` SET is_active = ? WHERE id = ? AND is_active = ?"
	}
	return `UPDATE "user" SET is_active = ? WHERE id = ? AND is_active = ?`
}
