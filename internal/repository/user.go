package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，密码在这里做哈希
// 用户名或邮箱重复时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Create(ctx context.Context, user *model.User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Now()

	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// hashPassword 超长密码按校验错误返回，不当作服务端错误
func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, utils.ValidationError("Validation failed").
			WithDetail("fields", map[string]string{"password": "max"})
	}
	return hash, err
}

// UpdatePassword 更新密码
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password_hash", string(hash)).Error
}

// ProfileUpdate 资料更新，nil 字段保持不变
type ProfileUpdate struct {
	Nickname         *string
	Bio              *string
	FavoriteGenres   []string
	FavoriteActorIDs []int64
}

// UpdateProfile 更新个人资料
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, u ProfileUpdate) error {
	updates := map[string]interface{}{}
	if u.Nickname != nil {
		updates["nickname"] = *u.Nickname
	}
	if u.Bio != nil {
		updates["bio"] = *u.Bio
	}
	if u.FavoriteGenres != nil {
		updates["favorite_genres"] = pq.StringArray(u.FavoriteGenres)
	}
	if u.FavoriteActorIDs != nil {
		updates["favorite_actor_ids"] = pq.Int64Array(u.FavoriteActorIDs)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

// UpdateNotifications 更新通知偏好
func (r *UserRepository) UpdateNotifications(ctx context.Context, userID int64, prefs model.NotificationPrefs) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"notify_release_reminders":     prefs.ReleaseReminders,
		"notify_favorite_actor_alerts": prefs.FavoriteActorAlerts,
	}).Error
}

// AddToWishlist 加入愿望单，已存在时返回 false
func (r *UserRepository) AddToWishlist(ctx context.Context, userID, movieID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND NOT (? = ANY(COALESCE(wishlist, '{}')))", userID, movieID).
		Update("wishlist", gorm.Expr("array_append(COALESCE(wishlist, '{}'), ?)", movieID))
	return res.RowsAffected > 0, res.Error
}

// RemoveFromWishlist 移出愿望单，不在其中时返回 false
func (r *UserRepository) RemoveFromWishlist(ctx context.Context, userID, movieID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND ? = ANY(wishlist)", userID, movieID).
		Update("wishlist", gorm.Expr("array_remove(wishlist, ?)", movieID))
	return res.RowsAffected > 0, res.Error
}

// ListNotifiable 获取开启了任一提醒的普通用户
func (r *UserRepository) ListNotifiable(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Where("notify_release_reminders OR notify_favorite_actor_alerts").
		Order("id ASC").
		Find(&users).Error
	return users, err
}
