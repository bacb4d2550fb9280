package model

import (
	"time"

	"github.com/lib/pq"
)

// NotificationPrefs 通知偏好
type NotificationPrefs struct {
	ReleaseReminders    bool `json:"releaseReminders"`
	FavoriteActorAlerts bool `json:"favoriteActorAlerts"`
}

// Enabled 是否开启了任一提醒
func (p NotificationPrefs) Enabled() bool {
	return p.ReleaseReminders || p.FavoriteActorAlerts
}

// User 用户模型
type User struct {
	ID               int64             `json:"id" gorm:"primaryKey"`
	Username         string            `json:"username" gorm:"uniqueIndex;not null"`
	Email            string            `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string            `json:"-" gorm:"not null"`
	Nickname         string            `json:"nickname"`
	Bio              string            `json:"bio"`
	FavoriteGenres   pq.StringArray    `json:"favoriteGenres" gorm:"type:text[]"`
	FavoriteActorIDs pq.Int64Array     `json:"favoriteActors" gorm:"type:bigint[]"`
	Role             Role              `json:"role" gorm:"type:varchar(16);default:user;not null"`
	Wishlist         pq.Int64Array     `json:"wishlist" gorm:"type:bigint[]"`
	CustomListIDs    pq.Int64Array     `json:"customLists" gorm:"type:bigint[]"`
	Notifications    NotificationPrefs `json:"notifications" gorm:"embedded;embeddedPrefix:notify_"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile 对外公开的用户资料
type PublicProfile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Nickname       string    `json:"nickname"`
	Bio            string    `json:"bio"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	FavoriteActors []int64   `json:"favoriteActors"`
	CustomLists    []int64   `json:"customLists"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Public 转为公开资料（不含邮箱、愿望单等私有字段）
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		Nickname:       u.Nickname,
		Bio:            u.Bio,
		FavoriteGenres: u.FavoriteGenres,
		FavoriteActors: u.FavoriteActorIDs,
		CustomLists:    u.CustomListIDs,
		CreatedAt:      u.CreatedAt,
	}
}
