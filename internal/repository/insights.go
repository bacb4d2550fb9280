package repository

import (
	"context"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

// Insights 管理后台统计
type Insights struct {
	Users              int64         `json:"users"`
	Movies             int64         `json:"movies"`
	Persons            int64         `json:"persons"`
	Reviews            int64         `json:"reviews"`
	Discussions        int64         `json:"discussions"`
	News               int64         `json:"news"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
	TopGenres          []GenreCount  `json:"topGenres"`
}

// GenreCount 类型及其电影数
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

type InsightsRepository struct {
	db *gorm.DB
}

func NewInsightsRepository(db *gorm.DB) *InsightsRepository {
	return &InsightsRepository{db: db}
}

// Counts 各集合的记录数
func (r *InsightsRepository) Counts(ctx context.Context, out *Insights) error {
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&model.User{}, &out.Users},
		{&model.Movie{}, &out.Movies},
		{&model.Person{}, &out.Persons},
		{&model.Review{}, &out.Reviews},
		{&model.Discussion{}, &out.Discussions},
		{&model.News{}, &out.News},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return err
		}
	}
	return nil
}

// RatingDistribution 各评分（1-5）的影评数量
func (r *InsightsRepository) RatingDistribution(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS total").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		dist[row.Rating] = row.Total
	}
	return dist, nil
}

// TopGenres 电影数最多的类型
func (r *InsightsRepository) TopGenres(ctx context.Context, limit int) ([]GenreCount, error) {
	var out []GenreCount
	err := r.db.WithContext(ctx).
		Raw(`SELECT g AS genre, COUNT(*) AS count FROM movies, unnest(genres) AS g
			GROUP BY g ORDER BY count DESC, g ASC LIMIT ?`, limit).
		Scan(&out).Error
	return out, err
}
