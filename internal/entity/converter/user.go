package converter

import (
	"blogcms/internal/entity"
)

const birthDayLayout = "2006-01-02"

// UserToSummary converts an entity.DbUser to entity.UserSummary.
func UserToSummary(u *entity.DbUser) entity.UserSummary {
	if u == nil {
		return entity.UserSummary{}
	}
	summary := entity.UserSummary{
		ID:         u.ID,
		UserName:   u.UserName,
		Name:       u.Name,
		Age:        u.Age,
		Phone:      u.Phone,
		Email:      u.Email,
		CreateTime: u.CreateTime,
		IsActive:   u.IsActive,
	}
	if u.BirthDay != nil {
		summary.BirthDay = u.BirthDay.Format(birthDayLayout)
	}
	return summary
}

// UsersToSummaries converts a slice of entity.DbUser to entity.UserSummary.
func UsersToSummaries(users []entity.DbUser) []entity.UserSummary {
	summaries := make([]entity.UserSummary, len(users))
	for i := range users {
		summaries[i] = UserToSummary(&users[i])
	}
	return summaries
}
