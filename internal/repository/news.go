package repository

import (
	"context"
	"errors"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create 创建新闻
func (r *NewsRepository) Create(ctx context.Context, news *model.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

// FindByID 根据 ID 查找新闻
func (r *NewsRepository) FindByID(ctx context.Context, id int64) (*model.News, error) {
	var news model.News
	err := r.db.WithContext(ctx).First(&news, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// List 按发布时间倒序分页，category 为空时不过滤
func (r *NewsRepository) List(ctx context.Context, category string, offset, limit int) ([]model.News, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.News{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var list []model.News
	total, err := findPage(q, "publish_date DESC, id DESC", offset, limit, &list)
	return list, total, err
}

// Update 只更新 cols 中列出的列
func (r *NewsRepository) Update(ctx context.Context, news *model.News, cols []string) error {
	return r.db.WithContext(ctx).Model(news).Select(cols).Updates(news).Error
}

// Delete 删除新闻
func (r *NewsRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.News{}, id)
	return res.RowsAffected > 0, res.Error
}
