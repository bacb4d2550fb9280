package service

import (
	"context"
	"fmt"

	"github.com/user/cinelog/internal/metrics"
	"github.com/user/cinelog/internal/utils"
	"go.uber.org/zap"
)

// RatingSource 提供某部电影的全部评分
type RatingSource interface {
	RatingsForMovie(ctx context.Context, movieID int64) ([]int, error)
}

// RatingSink 写回平均分
type RatingSink interface {
	SetAverageRating(ctx context.Context, movieID int64, avg float64) error
}

// CacheInvalidator 平均分变化后需要清理的缓存
type CacheInvalidator interface {
	Invalidate()
}

// RatingService 维护电影平均分
// 每次影评写入后全量重算，并发写入时以最后一次重算为准
type RatingService struct {
	reviews RatingSource
	movies  RatingSink
	caches  CacheInvalidator
	log     *zap.Logger
}

// NewRatingService 创建评分服务，caches 为 nil 时只清理榜单缓存
func NewRatingService(reviews RatingSource, movies RatingSink, caches CacheInvalidator) *RatingService {
	return &RatingService{
		reviews: reviews,
		movies:  movies,
		caches:  caches,
		log:     zap.L().With(zap.String("component", "rating")),
	}
}

// Recompute 重新计算并写入平均分，没有影评时为 0
func (s *RatingService) Recompute(ctx context.Context, movieID int64) (float64, error) {
	ratings, err := s.reviews.RatingsForMovie(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("load ratings for movie %d: %w", movieID, err)
	}

	avg := Mean(ratings)
	if err := s.movies.SetAverageRating(ctx, movieID, avg); err != nil {
		return 0, fmt.Errorf("store average for movie %d: %w", movieID, err)
	}

	metrics.RecordRatingRecompute()
	if s.caches != nil {
		s.caches.Invalidate()
	} else {
		utils.CacheDeletePrefix(rankingCachePrefix)
	}

	s.log.Debug("average rating recomputed",
		zap.Int64("movie_id", movieID),
		zap.Int("reviews", len(ratings)),
		zap.Float64("average", avg))

	return avg, nil
}

// Mean 算术平均
func Mean(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
