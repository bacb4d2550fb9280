package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type CustomListRepository struct {
	db *gorm.DB
}

func NewCustomListRepository(db *gorm.DB) *CustomListRepository {
	return &CustomListRepository{db: db}
}

// Create 创建片单并把 ID 记到用户的 custom_list_ids 上
// 同一用户下名称重复时返回 gorm.ErrDuplicatedKey
func (r *CustomListRepository) Create(ctx context.Context, list *model.CustomList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", list.UserID).
			Update("custom_list_ids", gorm.Expr("array_append(COALESCE(custom_list_ids, '{}'), ?)", list.ID)).Error
	})
}

// FindByID 根据 ID 查找片单
func (r *CustomListRepository) FindByID(ctx context.Context, id int64) (*model.CustomList, error) {
	var list model.CustomList
	err := r.db.WithContext(ctx).First(&list, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByUser 某用户的片单
func (r *CustomListRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.CustomList, int64, error) {
	var lists []model.CustomList
	q := r.db.WithContext(ctx).Model(&model.CustomList{}).Where("user_id = ?", userID)
	total, err := findPage(q, "created_at DESC, id DESC", offset, limit, &lists)
	return lists, total, err
}

// Update 更新名称与描述
func (r *CustomListRepository) Update(ctx context.Context, list *model.CustomList) error {
	list.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(list).Select("name", "description", "updated_at").Updates(list).Error
}

// Delete 删除片单并从用户的 custom_list_ids 中移除
func (r *CustomListRepository) Delete(ctx context.Context, list *model.CustomList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.CustomList{}, list.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", list.UserID).
			Update("custom_list_ids", gorm.Expr("array_remove(custom_list_ids, ?)", list.ID)).Error
	})
}

// AddMovie 追加电影，已在片单中时返回 false
func (r *CustomListRepository) AddMovie(ctx context.Context, listID, movieID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CustomList{}).
		Where("id = ? AND NOT (? = ANY(COALESCE(movie_ids, '{}')))", listID, movieID).
		Updates(map[string]interface{}{
			"movie_ids":  gorm.Expr("array_append(COALESCE(movie_ids, '{}'), ?)", movieID),
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

// RemoveMovie 移除电影，不在片单中时返回 false
func (r *CustomListRepository) RemoveMovie(ctx context.Context, listID, movieID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CustomList{}).
		Where("id = ? AND ? = ANY(movie_ids)", listID, movieID).
		Updates(map[string]interface{}{
			"movie_ids":  gorm.Expr("array_remove(movie_ids, ?)", movieID),
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}
