package service

import (
	"context"
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	rankingCachePrefix = "ranking:"
	rankingCacheTTL    = 5 * time.Minute
	similarCacheSize   = 512
	similarCacheTTL    = 10 * time.Minute
)

// MovieCatalog 推荐所需的电影查询
type MovieCatalog interface {
	FindByID(ctx context.Context, id int64) (*model.Movie, error)
	Similar(ctx context.Context, m *model.Movie, offset, limit int) ([]model.Movie, int64, error)
	ByGenres(ctx context.Context, genres []string, offset, limit int) ([]model.Movie, int64, error)
	TopRated(ctx context.Context, offset, limit int) ([]model.Movie, int64, error)
}

// MoviePage 一页电影
type MoviePage struct {
	Movies     []model.Movie    `json:"movies"`
	Pagination utils.Pagination `json:"pagination"`
}

// SimilarPage 一页相似电影
type SimilarPage struct {
	Movies     []SimilarMovie   `json:"movies"`
	Pagination utils.Pagination `json:"pagination"`
}

// Personalized 个性化推荐，两个区块互不混合
type Personalized struct {
	BasedOnGenres MoviePage `json:"basedOnGenres"`
	TopRated      MoviePage `json:"topRated"`
}

// RecommendationService 推荐服务
type RecommendationService struct {
	catalog MovieCatalog
	similar *utils.ExpiringLRU[*SimilarPage]
}

// NewRecommendationService 创建推荐服务
func NewRecommendationService(catalog MovieCatalog) *RecommendationService {
	return &RecommendationService{
		catalog: catalog,
		similar: utils.NewExpiringLRU[*SimilarPage](similarCacheSize, similarCacheTTL),
	}
}

// Invalidate 清空相似电影缓存和榜单缓存
// 平均分重算以及电影的增删改之后调用
func (s *RecommendationService) Invalidate() {
	s.similar.Purge()
	utils.CacheDeletePrefix(rankingCachePrefix)
}

// Similar 与源电影共享类型、导演或演员的电影
func (s *RecommendationService) Similar(ctx context.Context, movieID int64, p utils.PageParams) (*SimilarPage, error) {
	key := fmt.Sprintf("%d:%d:%d", movieID, p.Page, p.Limit)
	if page, ok := s.similar.Get(key); ok {
		return page, nil
	}

	source, err := s.catalog.FindByID(ctx, movieID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if source == nil {
		return nil, utils.NotFoundError("Movie not found")
	}

	movies, total, err := s.catalog.Similar(ctx, source, p.Offset(), p.Limit)
	if err != nil {
		return nil, utils.InternalError(err)
	}

	page := &SimilarPage{
		Movies:     make([]SimilarMovie, 0, len(movies)),
		Pagination: utils.NewPagination(p, total),
	}
	for _, m := range movies {
		page.Movies = append(page.Movies, ExplainSimilar(*source, m))
	}

	s.similar.Set(key, page)
	return page, nil
}

// Personalized 按用户喜欢的类型推荐，并附带全站高分榜
func (s *RecommendationService) Personalized(ctx context.Context, user *model.User, p utils.PageParams) (*Personalized, error) {
	out := &Personalized{
		BasedOnGenres: MoviePage{Movies: []model.Movie{}, Pagination: utils.NewPagination(p, 0)},
	}

	g, gctx := errgroup.WithContext(ctx)

	if len(user.FavoriteGenres) > 0 {
		g.Go(func() error {
			movies, total, err := s.catalog.ByGenres(gctx, user.FavoriteGenres, p.Offset(), p.Limit)
			if err != nil {
				return err
			}
			out.BasedOnGenres = MoviePage{Movies: movies, Pagination: utils.NewPagination(p, total)}
			return nil
		})
	}

	g.Go(func() error {
		page, err := s.TopRated(gctx, p)
		if err != nil {
			return err
		}
		out.TopRated = *page
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

// TopRated 按平均分降序，结果缓存 5 分钟
func (s *RecommendationService) TopRated(ctx context.Context, p utils.PageParams) (*MoviePage, error) {
	key := fmt.Sprintf("%stoprated:%d:%d", rankingCachePrefix, p.Page, p.Limit)
	if v, ok := utils.CacheGet(key); ok {
		if page, ok := v.(*MoviePage); ok {
			return page, nil
		}
	}

	movies, total, err := s.catalog.TopRated(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, utils.InternalError(err)
	}

	page := &MoviePage{Movies: movies, Pagination: utils.NewPagination(p, total)}
	utils.CacheSet(key, page, rankingCacheTTL)
	return page, nil
}

// Trending 热门电影
// TODO: 目前与 TopRated 完全相同，等有浏览量或近期影评数后再区分
func (s *RecommendationService) Trending(ctx context.Context, p utils.PageParams) (*MoviePage, error) {
	return s.TopRated(ctx, p)
}
