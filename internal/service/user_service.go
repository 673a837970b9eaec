package service

import (
	"blogcms/internal/entity"
	"blogcms/internal/entity/converter"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidBirthDay = errors.New("birth_day must be YYYY-MM-DD")
)

// UserService 用户管理
type UserService struct {
	store UserStore
}

// NewUserService creates the service.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUser stores a new active user. The password is stored as given.
func (s *UserService) CreateUser(ctx context.Context, req entity.UserCreateRequest) (uint, error) {
	user := &entity.DbUser{
		UserName: strings.TrimSpace(req.UserName),
		Name:     strings.TrimSpace(req.Name),
		Age:      req.Age,
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Passwd:   req.Passwd,
	}
	if raw := strings.TrimSpace(req.BirthDay); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidBirthDay, raw)
		}
		user.BirthDay = &day
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// GetUser returns an active user.
func (s *UserService) GetUser(ctx context.Context, id uint) (*entity.UserSummary, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	summary := converter.UserToSummary(user)
	return &summary, nil
}

// ListUsers returns one page of active users.
func (s *UserService) ListUsers(ctx context.Context, params entity.BaseParams) (*entity.UserListResponse, error) {
	params.Normalize(defaultPageSize, maxPageSize)
	users, meta, err := s.store.ListUsers(ctx, &entity.UserQuery{BaseParams: params})
	if err != nil {
		return nil, err
	}
	resp := &entity.UserListResponse{
		Page:     params.Page,
		PageSize: params.PageSize,
		List:     converter.UsersToSummaries(users),
	}
	if meta != nil {
		resp.Total = meta.Total
	}
	return resp, nil
}

// DeleteUser deactivates a user; deleting an inactive or unknown user
// yields ErrUserNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	changed, err := s.store.DeactivateUser(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return ErrUserNotFound
	}
	return nil
}
