package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// 排序方式
const (
	SortDefault     = ""
	SortRating      = "rating"
	SortReleaseDate = "releaseDate"
	SortTitle       = "title"
	SortNewest      = "newest"
)

var movieOrders = map[string]string{
	SortDefault:     "id ASC",
	SortRating:      "average_rating DESC, id ASC",
	SortReleaseDate: "release_date ASC NULLS LAST, id ASC",
	SortTitle:       "title ASC, id ASC",
	SortNewest:      "created_at DESC, id DESC",
}

// IsMovieSort 排序参数是否合法
func IsMovieSort(s string) bool {
	_, ok := movieOrders[s]
	return ok
}

// MovieFilter 电影筛选条件，各条件之间为 AND，Keyword 内部为 OR
type MovieFilter struct {
	Title      string
	Genre      string
	Country    string
	Language   string
	Keyword    string
	AgeRating  string
	YearFrom   int
	YearTo     int
	MinRating  *float64
	DirectorID int64
	ActorID    int64
	Sort       string
}

func (f MovieFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Title != "" {
		db = db.Where("title ILIKE ?", contains(f.Title))
	}
	if f.Genre != "" {
		db = db.Where("? = ANY(genres)", f.Genre)
	}
	if f.Country != "" {
		db = db.Where("country ILIKE ?", contains(f.Country))
	}
	if f.Language != "" {
		db = db.Where("language ILIKE ?", contains(f.Language))
	}
	if f.YearFrom > 0 {
		db = db.Where("EXTRACT(YEAR FROM release_date) >= ?", f.YearFrom)
	}
	if f.YearTo > 0 {
		db = db.Where("EXTRACT(YEAR FROM release_date) <= ?", f.YearTo)
	}
	if f.MinRating != nil {
		db = db.Where("average_rating >= ?", *f.MinRating)
	}
	if f.AgeRating != "" {
		db = db.Where("age_rating = ?", f.AgeRating)
	}
	if f.DirectorID > 0 {
		db = db.Where("? = ANY(director_ids)", f.DirectorID)
	}
	if f.ActorID > 0 {
		db = db.Where("? = ANY(actor_ids)", f.ActorID)
	}
	if f.Keyword != "" {
		db = db.Where(`(title ILIKE @kw OR synopsis ILIKE @kw OR country ILIKE @kw OR language ILIKE @kw
			OR array_to_string(trivia, ' ') ILIKE @kw OR array_to_string(awards, ' ') ILIKE @kw
			OR array_to_string(genres, ' ') ILIKE @kw)`, sql.Named("kw", contains(f.Keyword)))
	}
	return db
}

// Search 按条件分页查询电影
func (r *MovieRepository) Search(ctx context.Context, f MovieFilter, offset, limit int) ([]model.Movie, int64, error) {
	order, ok := movieOrders[f.Sort]
	if !ok {
		order = movieOrders[SortDefault]
	}

	var movies []model.Movie
	q := r.db.WithContext(ctx).Model(&model.Movie{}).Scopes(f.scope)
	total, err := findPage(q, order, offset, limit, &movies)
	return movies, total, err
}

// Similar 与给定电影共享任一类型、导演或演员的其他电影
func (r *MovieRepository) Similar(ctx context.Context, m *model.Movie, offset, limit int) ([]model.Movie, int64, error) {
	var movies []model.Movie
	q := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id <> ?", m.ID).
		Where("(genres && ? OR director_ids && ? OR actor_ids && ?)",
			pq.Array(nonNilStrings(m.Genres)), pq.Array(nonNilInts(m.DirectorIDs)), pq.Array(nonNilInts(m.ActorIDs)))
	total, err := findPage(q, "average_rating DESC, id ASC", offset, limit, &movies)
	return movies, total, err
}

// ByGenres 类型与给定集合有交集的电影
func (r *MovieRepository) ByGenres(ctx context.Context, genres []string, offset, limit int) ([]model.Movie, int64, error) {
	var movies []model.Movie
	q := r.db.WithContext(ctx).Model(&model.Movie{}).Where("genres && ?", pq.Array(genres))
	total, err := findPage(q, "average_rating DESC, id ASC", offset, limit, &movies)
	return movies, total, err
}

// TopRated 按平均分降序
func (r *MovieRepository) TopRated(ctx context.Context, offset, limit int) ([]model.Movie, int64, error) {
	var movies []model.Movie
	q := r.db.WithContext(ctx).Model(&model.Movie{})
	total, err := findPage(q, "average_rating DESC, id ASC", offset, limit, &movies)
	return movies, total, err
}

// ReleasingBetween 上映日期落在 [from, to] 内的电影
func (r *MovieRepository) ReleasingBetween(ctx context.Context, from, to time.Time) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).
		Where("release_date >= ? AND release_date <= ?", from, to).
		Order("release_date ASC, id ASC").
		Find(&movies).Error
	return movies, err
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(ctx context.Context, id int64) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByIDs 批量查找，返回顺序与 ids 一致，不存在的跳过
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	if len(ids) == 0 {
		return []model.Movie{}, nil
	}

	var movies []model.Movie
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]model.Movie, 0, len(movies))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// Create 创建电影，并在同一事务里为关联人物追加作品条目
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return err
		}
		return appendCredits(tx, movie)
	})
}

// Update 只更新 cols 中列出的列，平均分不在其中
func (r *MovieRepository) Update(ctx context.Context, movie *model.Movie, cols []string) error {
	movie.UpdatedAt = time.Now()
	cols = append(cols, "updated_at")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(movie).Select(cols).Updates(movie).Error; err != nil {
			return err
		}
		return appendCredits(tx, movie)
	})
}

// Delete 删除电影，不级联
func (r *MovieRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Movie{}, id)
	return res.RowsAffected > 0, res.Error
}

// SetAverageRating 写入平均分
func (r *MovieRepository) SetAverageRating(ctx context.Context, movieID int64, avg float64) error {
	return r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieID).UpdateColumn("average_rating", avg).Error
}

// Genres 去重后的全部类型
func (r *MovieRepository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT g FROM movies, unnest(genres) AS g ORDER BY g").
		Scan(&genres).Error
	return genres, err
}

// appendCredits 为电影的演员/导演/剧组追加作品条目，同一电影同一角色不重复
func appendCredits(tx *gorm.DB, movie *model.Movie) error {
	credits := []struct {
		ids  []int64
		role model.PersonType
	}{
		{movie.ActorIDs, model.PersonActor},
		{movie.DirectorIDs, model.PersonDirector},
		{movie.CrewIDs, model.PersonCrew},
	}

	for _, c := range credits {
		if len(c.ids) == 0 {
			continue
		}

		entry := model.FilmographyEntry{MovieID: movie.ID, Role: string(c.role), Year: movie.ReleaseYear()}
		appendJSON, err := json.Marshal([]model.FilmographyEntry{entry})
		if err != nil {
			return err
		}
		matchJSON, err := json.Marshal([]map[string]interface{}{{"movieId": movie.ID, "role": entry.Role}})
		if err != nil {
			return err
		}

		err = tx.Model(&model.Person{}).
			Where("id IN ?", c.ids).
			Where("NOT (COALESCE(filmography, '[]'::jsonb) @> ?::jsonb)", string(matchJSON)).
			Update("filmography", gorm.Expr("COALESCE(filmography, '[]'::jsonb) || ?::jsonb", string(appendJSON))).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}
