package handler

import (
	"context"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"gorm.io/gorm"
)

// 处理器依赖的存储接口，由 repository 包中的仓库实现

// UserStore 用户账号与资料
type UserStore interface {
	Create(ctx context.Context, user *model.User, password string) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
	UpdatePassword(ctx context.Context, userID int64, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, u repository.ProfileUpdate) error
	UpdateNotifications(ctx context.Context, userID int64, prefs model.NotificationPrefs) error
	AddToWishlist(ctx context.Context, userID, movieID int64) (bool, error)
	RemoveFromWishlist(ctx context.Context, userID, movieID int64) (bool, error)
}

// MovieStore 电影目录
type MovieStore interface {
	Search(ctx context.Context, f repository.MovieFilter, offset, limit int) ([]model.Movie, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Movie, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error)
	Genres(ctx context.Context) ([]string, error)
	Create(ctx context.Context, movie *model.Movie) error
	Update(ctx context.Context, movie *model.Movie, cols []string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// PersonStore 演员与导演
type PersonStore interface {
	FindByID(ctx context.Context, id int64) (*model.Person, error)
	FindByName(ctx context.Context, name string, personType model.PersonType) (*model.Person, error)
	Summaries(ctx context.Context, ids []int64) ([]model.PersonSummary, error)
	Create(ctx context.Context, person *model.Person) error
	Update(ctx context.Context, person *model.Person, cols []string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ReviewStore 影评列表查询，写入走 ReviewService
type ReviewStore interface {
	ListByMovie(ctx context.Context, movieID int64, offset, limit int) ([]model.Review, int64, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Review, int64, error)
}

type DiscussionStore interface {
	Create(ctx context.Context, d *model.Discussion) error
	FindByID(ctx context.Context, id int64) (*model.Discussion, error)
	List(ctx context.Context, category string, offset, limit int) ([]model.Discussion, int64, error)
	Update(ctx context.Context, d *model.Discussion, cols []string) error
	Delete(ctx context.Context, id int64) error
	AppendComment(ctx context.Context, discussionID int64, c model.Comment) (bool, error)
	RemoveComment(ctx context.Context, discussionID int64, commentID string) (bool, error)
}

type CustomListStore interface {
	Create(ctx context.Context, list *model.CustomList) error
	FindByID(ctx context.Context, id int64) (*model.CustomList, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.CustomList, int64, error)
	Update(ctx context.Context, list *model.CustomList) error
	Delete(ctx context.Context, list *model.CustomList) error
	AddMovie(ctx context.Context, listID, movieID int64) (bool, error)
	RemoveMovie(ctx context.Context, listID, movieID int64) (bool, error)
}

type NewsStore interface {
	Create(ctx context.Context, news *model.News) error
	FindByID(ctx context.Context, id int64) (*model.News, error)
	List(ctx context.Context, category string, offset, limit int) ([]model.News, int64, error)
	Update(ctx context.Context, news *model.News, cols []string) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// RefStore 引用校验
type RefStore interface {
	Ensure(ctx context.Context, collection string, ids []int64, scopes ...func(*gorm.DB) *gorm.DB) error
	Exists(ctx context.Context, collection string, id int64) (bool, error)
}

// StatsStore 站点统计
type StatsStore interface {
	Counts(ctx context.Context, out *repository.Insights) error
	RatingDistribution(ctx context.Context) (map[int]int64, error)
	TopGenres(ctx context.Context, limit int) ([]repository.GenreCount, error)
}
