package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByID 根据 ID 查找人物
func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	var person model.Person
	err := r.db.WithContext(ctx).First(&person, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByName 按名字（不区分大小写）查找，personType 为空时不限类型
func (r *PersonRepository) FindByName(ctx context.Context, name string, personType model.PersonType) (*model.Person, error) {
	q := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name)
	if personType != "" {
		q = q.Where("type = ?", personType)
	}

	var person model.Person
	err := q.Order("id ASC").First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// Summaries 批量获取人物摘要，顺序与 ids 一致
func (r *PersonRepository) Summaries(ctx context.Context, ids []int64) ([]model.PersonSummary, error) {
	out := make([]model.PersonSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var persons []model.Person
	if err := r.db.WithContext(ctx).Select("id", "name", "type").Where("id IN ?", ids).Find(&persons).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.PersonSummary, len(persons))
	for i := range persons {
		byID[persons[i].ID] = persons[i].Summary()
	}
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Create 创建人物
func (r *PersonRepository) Create(ctx context.Context, person *model.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

// Update 只更新 cols 中列出的列
func (r *PersonRepository) Update(ctx context.Context, person *model.Person, cols []string) error {
	person.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(person).Select(append(cols, "updated_at")).Updates(person).Error
}

// Delete 删除人物，不级联
func (r *PersonRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Person{}, id)
	return res.RowsAffected > 0, res.Error
}
