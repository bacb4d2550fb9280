package service

import (
	"context"
	"errors"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"gorm.io/gorm"
)

// ReviewStore 影评存储
type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int64) error
}

// Referencer 判断被引用记录是否存在
type Referencer interface {
	Exists(ctx context.Context, collection string, id int64) (bool, error)
}

// ReviewService 影评写入，每次写入后同步重算电影平均分
type ReviewService struct {
	store  ReviewStore
	refs   Referencer
	rating *RatingService
}

// NewReviewService 创建影评服务
func NewReviewService(store ReviewStore, refs Referencer, rating *RatingService) *ReviewService {
	return &ReviewService{store: store, refs: refs, rating: rating}
}

// Create 发表影评
func (s *ReviewService) Create(ctx context.Context, userID, movieID int64, rating int, text string) (*model.Review, error) {
	ok, err := s.refs.Exists(ctx, "movies", movieID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if !ok {
		return nil, utils.NotFoundError("Movie not found")
	}

	review := &model.Review{UserID: userID, MovieID: movieID, Rating: rating, Text: text}
	if err := s.store.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("You have already reviewed this movie")
		}
		return nil, utils.InternalError(err)
	}

	if _, err := s.rating.Recompute(ctx, movieID); err != nil {
		return nil, utils.InternalError(err)
	}
	return review, nil
}

// Get 获取影评
func (s *ReviewService) Get(ctx context.Context, id int64) (*model.Review, error) {
	review, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if review == nil {
		return nil, utils.NotFoundError("Review not found")
	}
	return review, nil
}

// Update 保存修改后的评分与内容
func (s *ReviewService) Update(ctx context.Context, review *model.Review) error {
	if err := s.store.Update(ctx, review); err != nil {
		return utils.InternalError(err)
	}
	if _, err := s.rating.Recompute(ctx, review.MovieID); err != nil {
		return utils.InternalError(err)
	}
	return nil
}

// Delete 删除影评，删除后平均分同样重算
func (s *ReviewService) Delete(ctx context.Context, review *model.Review) error {
	if err := s.store.Delete(ctx, review.ID); err != nil {
		return utils.InternalError(err)
	}
	if _, err := s.rating.Recompute(ctx, review.MovieID); err != nil {
		return utils.InternalError(err)
	}
	return nil
}
