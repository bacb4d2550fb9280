package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

type movieSearchQuery struct {
	Title     string   `form:"title" json:"title"`
	Genre     string   `form:"genre" json:"genre"`
	Country   string   `form:"country" json:"country"`
	Language  string   `form:"language" json:"language"`
	Keyword   string   `form:"keyword" json:"keyword"`
	AgeRating string   `form:"ageRating" json:"ageRating" binding:"omitempty,agerating"`
	YearFrom  int      `form:"yearFrom" json:"yearFrom" binding:"omitempty,min=1870,max=3000"`
	YearTo    int      `form:"yearTo" json:"yearTo" binding:"omitempty,min=1870,max=3000"`
	MinRating *float64 `form:"minRating" json:"minRating" binding:"omitempty,min=0,max=5"`
	Director  string   `form:"director" json:"director"`
	Actor     string   `form:"actor" json:"actor"`
	Sort      string   `form:"sort" json:"sort"`
}

// ListMovies 电影列表
// @Summary  List movies
// @Tags     movies
// @Produce  json
// @Param    page  query int    false "page"
// @Param    limit query int    false "page size"
// @Param    sort  query string false "rating (desc) | releaseDate (asc) | title (asc) | newest"
// @Success  200 {object} utils.Response
// @Router   /api/movies [get]
func (h *Handler) ListMovies(c *gin.Context) {
	sort := c.Query("sort")
	if !repository.IsMovieSort(sort) {
		utils.Fail(c, utils.ValidationError("Invalid sort option").WithDetail("sort", sort))
		return
	}

	p := utils.ParsePage(c, 0)
	movies, total, err := h.Movies.Search(c.Request.Context(), repository.MovieFilter{Sort: sort}, p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("movies", movies, p, total))
}

// SearchMovies 多条件搜索，条件之间为 AND
// @Summary  Search movies
// @Tags     movies
// @Produce  json
// @Param    title     query string false "title substring"
// @Param    genre     query string false "exact genre"
// @Param    keyword   query string false "matches title, synopsis, trivia, awards, country or language"
// @Param    director  query string false "director name"
// @Param    actor     query string false "actor name"
// @Param    yearFrom  query int    false "release year from"
// @Param    yearTo    query int    false "release year to"
// @Param    minRating query number false "minimum average rating"
// @Param    limit     query int    false "page size, max 100"
// @Success  200 {object} utils.Response
// @Failure  404 {object} utils.Response
// @Router   /api/movies/search [get]
func (h *Handler) SearchMovies(c *gin.Context) {
	var q movieSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Fail(c, utils.BindError(err))
		return
	}
	if !repository.IsMovieSort(q.Sort) {
		utils.Fail(c, utils.ValidationError("Invalid sort option").WithDetail("sort", q.Sort))
		return
	}
	if q.YearFrom > 0 && q.YearTo > 0 && q.YearFrom > q.YearTo {
		utils.Fail(c, utils.ValidationError("yearFrom must not be after yearTo"))
		return
	}

	ctx := c.Request.Context()
	filter := repository.MovieFilter{
		Title:     q.Title,
		Genre:     q.Genre,
		Country:   q.Country,
		Language:  q.Language,
		Keyword:   q.Keyword,
		AgeRating: q.AgeRating,
		YearFrom:  q.YearFrom,
		YearTo:    q.YearTo,
		MinRating: q.MinRating,
		Sort:      q.Sort,
	}

	// 人名先按类型解析为人物 ID，同名的演员不会顶替导演
	var err error
	if q.Director != "" {
		if filter.DirectorID, err = h.resolvePerson(ctx, q.Director, model.PersonDirector); err != nil {
			utils.Fail(c, err)
			return
		}
	}
	if q.Actor != "" {
		if filter.ActorID, err = h.resolvePerson(ctx, q.Actor, model.PersonActor); err != nil {
			utils.Fail(c, err)
			return
		}
	}

	p := utils.ParsePage(c, utils.MaxSearchLimit)
	movies, total, err := h.Movies.Search(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("movies", movies, p, total))
}

// resolvePerson 按名字和类型查找人物 ID
func (h *Handler) resolvePerson(ctx context.Context, name string, personType model.PersonType) (int64, error) {
	person, err := h.Persons.FindByName(ctx, name, personType)
	if err != nil {
		return 0, utils.InternalError(err)
	}
	if person == nil {
		label := "Actor"
		if personType == model.PersonDirector {
			label = "Director"
		}
		return 0, utils.NotFoundError("%s with name %s not found", label, name)
	}
	return person.ID, nil
}

// GetMovie 电影详情，演员与导演展开为人物摘要
// @Summary  Get a movie
// @Tags     movies
// @Produce  json
// @Param    id path int true "movie id"
// @Success  200 {object} utils.Response
// @Failure  404 {object} utils.Response
// @Router   /api/movies/{id} [get]
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	movie, err := h.Movies.FindByID(ctx, id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if movie == nil {
		utils.Fail(c, utils.NotFoundError("Movie not found"))
		return
	}

	detail := model.MovieDetail{Movie: *movie}
	if detail.Actors, err = h.Persons.Summaries(ctx, movie.ActorIDs); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if detail.Directors, err = h.Persons.Summaries(ctx, movie.DirectorIDs); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, detail)
}

// MovieReviews 电影的影评
func (h *Handler) MovieReviews(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	ok, err := h.Refs.Exists(ctx, repository.CollectionMovies, id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !ok {
		utils.Fail(c, utils.NotFoundError("Movie not found"))
		return
	}

	p := utils.ParsePage(c, 0)
	reviews, total, err := h.ReviewIndex.ListByMovie(ctx, id, p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("reviews", reviews, p, total))
}

// Genres 全部类型
func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.Movies.Genres(c.Request.Context())
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	utils.Success(c, gin.H{"genres": genres})
}

// GetPerson 人物详情
func (h *Handler) GetPerson(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	person, err := h.Persons.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if person == nil {
		utils.Fail(c, utils.NotFoundError("Person not found"))
		return
	}

	utils.Success(c, person)
}

// Insights 管理后台统计
// @Summary  Catalog insights
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} utils.Response
// @Failure  403 {object} utils.Response
// @Router   /api/movies/admin/insights [get]
func (h *Handler) Insights(c *gin.Context) {
	ctx := c.Request.Context()

	var out repository.Insights
	if err := h.Stats.Counts(ctx, &out); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	dist, err := h.Stats.RatingDistribution(ctx)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	out.RatingDistribution = dist

	if out.TopGenres, err = h.Stats.TopGenres(ctx, 10); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, out)
}
