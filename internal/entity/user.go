package entity

import "time"

// DbUser represents a persisted user account.
type DbUser struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserName   string     `gorm:"column:user_name;type:varchar(64)" json:"user_name"`
	Name       string     `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Age        int        `gorm:"column:age" json:"age"`
	Phone      string     `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Email      string     `gorm:"column:email;type:varchar(255)" json:"email"`
	Passwd     string     `gorm:"column:passwd;type:varchar(255)" json:"-"`
	BirthDay   *time.Time `gorm:"column:birth_day;type:date" json:"birth_day"`
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "user"
}

// UserSummary is a user description returned to clients.
type UserSummary struct {
	ID         uint      `json:"id"`
	UserName   string    `json:"user_name"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	BirthDay   string    `json:"birth_day"`
	CreateTime time.Time `json:"create_time"`
	IsActive   bool      `json:"is_active"`
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
}

// UserCreateRequest is the payload of POST /user/.
type UserCreateRequest struct {
	UserName string `json:"user_name"`
	Name     string `json:"name" binding:"required"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Passwd   string `json:"passwd"`
	BirthDay string `json:"birth_day"`
}

// UserListResponse is the page envelope returned by GET /user/.
type UserListResponse struct {
	Page     int64         `json:"page"`
	PageSize int64         `json:"page_size"`
	Total    int64         `json:"total"`
	List     []UserSummary `json:"list"`
}
