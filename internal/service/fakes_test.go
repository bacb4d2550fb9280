package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

// memReviews 内存影评存储，模拟 (user, movie) 唯一索引
type memReviews struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*model.Review
}

func newMemReviews() *memReviews {
	return &memReviews{reviews: map[int64]*model.Review{}}
}

func (m *memReviews) Create(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.MovieID == r.MovieID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memReviews) FindByID(_ context.Context, id int64) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memReviews) Update(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memReviews) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, id)
	return nil
}

func (m *memReviews) RatingsForMovie(_ context.Context, movieID int64) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for _, r := range m.reviews {
		if r.MovieID == movieID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

// memAverages 记录写回的平均分
type memAverages struct {
	mu   sync.Mutex
	avgs map[int64]float64
	err  error
}

func newMemAverages() *memAverages {
	return &memAverages{avgs: map[int64]float64{}}
}

func (m *memAverages) SetAverageRating(_ context.Context, movieID int64, avg float64) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avgs[movieID] = avg
	return nil
}

func (m *memAverages) get(movieID int64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.avgs[movieID]
}

// memRefs 只认识给定的电影 ID
type memRefs map[int64]bool

func (r memRefs) Exists(_ context.Context, _ string, id int64) (bool, error) {
	return r[id], nil
}

// memCatalog 内存电影目录
type memCatalog struct {
	mu       sync.Mutex
	movies   []model.Movie
	topCalls int
}

func (c *memCatalog) FindByID(_ context.Context, id int64) (*model.Movie, error) {
	for i := range c.movies {
		if c.movies[i].ID == id {
			m := c.movies[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (c *memCatalog) SetAverageRating(_ context.Context, movieID int64, avg float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.movies {
		if c.movies[i].ID == movieID {
			c.movies[i].AverageRating = avg
		}
	}
	return nil
}

func (c *memCatalog) Similar(_ context.Context, src *model.Movie, offset, limit int) ([]model.Movie, int64, error) {
	var out []model.Movie
	for _, m := range c.movies {
		if m.ID == src.ID {
			continue
		}
		e := ExplainSimilar(*src, m)
		if len(e.SharedGenres) > 0 || intersects(src.DirectorIDs, m.DirectorIDs) || intersects(src.ActorIDs, m.ActorIDs) {
			out = append(out, m)
		}
	}
	return window(out, offset, limit), int64(len(out)), nil
}

func (c *memCatalog) ByGenres(_ context.Context, genres []string, offset, limit int) ([]model.Movie, int64, error) {
	var out []model.Movie
	for _, m := range c.movies {
		for _, g := range m.Genres {
			if contains(genres, g) {
				out = append(out, m)
				break
			}
		}
	}
	return window(out, offset, limit), int64(len(out)), nil
}

func (c *memCatalog) TopRated(_ context.Context, offset, limit int) ([]model.Movie, int64, error) {
	c.mu.Lock()
	c.topCalls++
	c.mu.Unlock()
	return window(c.movies, offset, limit), int64(len(c.movies)), nil
}

func (c *memCatalog) ReleasingBetween(_ context.Context, from, to time.Time) ([]model.Movie, error) {
	var out []model.Movie
	for _, m := range c.movies {
		if m.ReleaseDate != nil && !m.ReleaseDate.Before(from) && !m.ReleaseDate.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

// memUsers 提醒收件人
type memUsers []model.User

func (u memUsers) ListNotifiable(context.Context) ([]model.User, error) {
	return u, nil
}

// recordingMailer 记录发出的邮件，对指定地址返回错误
type recordingMailer struct {
	mu     sync.Mutex
	sent   []Email
	failOn map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, e Email) error {
	if m.failOn[e.ToAddress] {
		return errors.New("provider rejected message")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func window(movies []model.Movie, offset, limit int) []model.Movie {
	if offset >= len(movies) {
		return []model.Movie{}
	}
	end := offset + limit
	if end > len(movies) {
		end = len(movies)
	}
	return movies[offset:end]
}

func intersects(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
