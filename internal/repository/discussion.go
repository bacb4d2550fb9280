package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create 创建讨论
func (r *DiscussionRepository) Create(ctx context.Context, d *model.Discussion) error {
	if d.Comments == nil {
		d.Comments = []model.Comment{}
	}
	return r.db.WithContext(ctx).Create(d).Error
}

// FindByID 根据 ID 查找讨论
func (r *DiscussionRepository) FindByID(ctx context.Context, id int64) (*model.Discussion, error) {
	var d model.Discussion
	err := r.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List 分页列出讨论，category 为空时不过滤
func (r *DiscussionRepository) List(ctx context.Context, category string, offset, limit int) ([]model.Discussion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Discussion{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var list []model.Discussion
	total, err := findPage(q, "created_at DESC, id DESC", offset, limit, &list)
	return list, total, err
}

// Update 只更新 cols 中列出的列，评论不在其中
func (r *DiscussionRepository) Update(ctx context.Context, d *model.Discussion, cols []string) error {
	d.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(d).Select(append(cols, "updated_at")).Updates(d).Error
}

// Delete 删除讨论及其评论
func (r *DiscussionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Discussion{}, id).Error
}

// AppendComment 在评论数组末尾追加一条，讨论不存在时返回 false
func (r *DiscussionRepository) AppendComment(ctx context.Context, discussionID int64, c model.Comment) (bool, error) {
	payload, err := json.Marshal([]model.Comment{c})
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Model(&model.Discussion{}).
		Where("id = ?", discussionID).
		Updates(map[string]interface{}{
			"comments":   gorm.Expr("COALESCE(comments, '[]'::jsonb) || ?::jsonb", string(payload)),
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

// RemoveComment 按评论 ID 删除，保持其余评论顺序
func (r *DiscussionRepository) RemoveComment(ctx context.Context, discussionID int64, commentID string) (bool, error) {
	match, err := json.Marshal([]map[string]string{{"id": commentID}})
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Model(&model.Discussion{}).
		Where("id = ?", discussionID).
		Where("COALESCE(comments, '[]'::jsonb) @> ?::jsonb", string(match)).
		Updates(map[string]interface{}{
			"comments": gorm.Expr(`COALESCE((SELECT jsonb_agg(e.c ORDER BY e.ord)
				FROM jsonb_array_elements(comments) WITH ORDINALITY AS e(c, ord)
				WHERE e.c->>'id' <> ?), '[]'::jsonb)`, commentID),
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}
