package repository

import (
	"context"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"gorm.io/gorm"
)

// 被引用的集合
const (
	CollectionMovies  = "movies"
	CollectionPersons = "persons"
)

// RefChecker 引用完整性校验
// 数据库不建外键，写入前由这里确认被引用的记录存在
type RefChecker struct {
	db *gorm.DB
}

func NewRefChecker(db *gorm.DB) *RefChecker {
	return &RefChecker{db: db}
}

// OfPersonType 限定人物类型
func OfPersonType(t model.PersonType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ?", t)
	}
}

// Missing 返回 ids 中在 collection 里找不到的那些（去重，保持原顺序）
func (c *RefChecker) Missing(ctx context.Context, collection string, ids []int64, scopes ...func(*gorm.DB) *gorm.DB) ([]int64, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return nil, nil
	}

	var found []int64
	err := c.db.WithContext(ctx).Table(collection).
		Scopes(scopes...).
		Where("id IN ?", unique).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}

	return subtract(unique, found), nil
}

// Ensure 任一引用不存在时返回校验错误，details.missing 列出缺失的 ID
func (c *RefChecker) Ensure(ctx context.Context, collection string, ids []int64, scopes ...func(*gorm.DB) *gorm.DB) error {
	missing, err := c.Missing(ctx, collection, ids, scopes...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return utils.ValidationError("Invalid %s ids", collection).WithDetail("missing", missing)
	}
	return nil
}

// Exists 单个引用是否存在
func (c *RefChecker) Exists(ctx context.Context, collection string, id int64) (bool, error) {
	missing, err := c.Missing(ctx, collection, []int64{id})
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func subtract(ids, found []int64) []int64 {
	have := make(map[int64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
