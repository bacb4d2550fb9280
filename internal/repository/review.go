package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建影评，同一用户重复评同一电影时返回 gorm.ErrDuplicatedKey
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID 根据 ID 查找影评
func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update 更新评分与内容
func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	review.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(review).Select("rating", "text", "updated_at").Updates(review).Error
}

// Delete 删除影评
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

// RatingsForMovie 某电影的全部评分
func (r *ReviewRepository) RatingsForMovie(ctx context.Context, movieID int64) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("movie_id = ?", movieID).Pluck("rating", &ratings).Error
	return ratings, err
}

// ListByMovie 某电影的影评，新的在前
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("movie_id = ?", movieID)
	total, err := findPage(q, "created_at DESC, id DESC", offset, limit, &reviews)
	return reviews, total, err
}

// ListByUser 某用户写的影评
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("user_id = ?", userID)
	total, err := findPage(q, "created_at DESC, id DESC", offset, limit, &reviews)
	return reviews, total, err
}
