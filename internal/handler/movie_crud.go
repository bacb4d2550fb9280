package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// movieRequest 创建与更新共用，nil 表示不修改
// averageRating 由影评推导，请求体中的值会被忽略
type movieRequest struct {
	Title       *string          `json:"title" binding:"omitempty,notblank,max=300"`
	Genres      []string         `json:"genres" binding:"omitempty,dive,notblank"`
	Actors      []int64          `json:"actors" binding:"omitempty,dive,gt=0"`
	Directors   []int64          `json:"directors" binding:"omitempty,dive,gt=0"`
	Crew        []int64          `json:"crew" binding:"omitempty,dive,gt=0"`
	ReleaseDate *string          `json:"releaseDate" binding:"omitempty,date"`
	Runtime     *int             `json:"runtime" binding:"omitempty,min=0,max=1000"`
	Synopsis    *string          `json:"synopsis"`
	PosterURL   *string          `json:"posterUrl" binding:"omitempty,url"`
	Trivia      []string         `json:"trivia"`
	Goofs       []string         `json:"goofs"`
	Soundtrack  []string         `json:"soundtrack"`
	Awards      []string         `json:"awards"`
	AgeRating   *string          `json:"ageRating" binding:"omitempty,agerating"`
	BoxOffice   *model.BoxOffice `json:"boxOffice"`
	Country     *string          `json:"country"`
	Language    *string          `json:"language"`
}

// apply 把请求中出现的字段写到 m 上，返回被修改的列
func (r *movieRequest) apply(m *model.Movie) ([]string, error) {
	var cols []string
	if r.Title != nil {
		m.Title = strings.TrimSpace(*r.Title)
		cols = append(cols, "title")
	}
	if r.Genres != nil {
		m.Genres = pq.StringArray(trimAll(r.Genres))
		cols = append(cols, "genres")
	}
	if r.Actors != nil {
		m.ActorIDs = pq.Int64Array(r.Actors)
		cols = append(cols, "actor_ids")
	}
	if r.Directors != nil {
		m.DirectorIDs = pq.Int64Array(r.Directors)
		cols = append(cols, "director_ids")
	}
	if r.Crew != nil {
		m.CrewIDs = pq.Int64Array(r.Crew)
		cols = append(cols, "crew_ids")
	}
	if r.ReleaseDate != nil {
		t, err := utils.ParseDate(*r.ReleaseDate)
		if err != nil {
			return nil, utils.ValidationError("Invalid releaseDate")
		}
		m.ReleaseDate = &t
		cols = append(cols, "release_date")
	}
	if r.Runtime != nil {
		m.Runtime = *r.Runtime
		cols = append(cols, "runtime")
	}
	if r.Synopsis != nil {
		m.Synopsis = *r.Synopsis
		cols = append(cols, "synopsis")
	}
	if r.PosterURL != nil {
		m.PosterURL = *r.PosterURL
		cols = append(cols, "poster_url")
	}
	if r.Trivia != nil {
		m.Trivia = pq.StringArray(r.Trivia)
		cols = append(cols, "trivia")
	}
	if r.Goofs != nil {
		m.Goofs = pq.StringArray(r.Goofs)
		cols = append(cols, "goofs")
	}
	if r.Soundtrack != nil {
		m.Soundtrack = pq.StringArray(r.Soundtrack)
		cols = append(cols, "soundtrack")
	}
	if r.Awards != nil {
		m.Awards = pq.StringArray(r.Awards)
		cols = append(cols, "awards")
	}
	if r.AgeRating != nil {
		m.AgeRating = model.AgeRating(*r.AgeRating)
		cols = append(cols, "age_rating")
	}
	if r.BoxOffice != nil {
		m.BoxOffice = *r.BoxOffice
		cols = append(cols, "box_office")
	}
	if r.Country != nil {
		m.Country = *r.Country
		cols = append(cols, "country")
	}
	if r.Language != nil {
		m.Language = *r.Language
		cols = append(cols, "language")
	}
	return cols, nil
}

// personRefs 请求中引用到的全部人物 ID
func (r *movieRequest) personRefs() []int64 {
	ids := make([]int64, 0, len(r.Actors)+len(r.Directors)+len(r.Crew))
	ids = append(ids, r.Actors...)
	ids = append(ids, r.Directors...)
	return append(ids, r.Crew...)
}

// CreateMovie 创建电影
// @Summary  Create a movie
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body movieRequest true "movie"
// @Success  201 {object} utils.Response
// @Failure  400 {object} utils.Response
// @Failure  403 {object} utils.Response
// @Router   /api/moviesCRUD/movie [post]
func (h *Handler) CreateMovie(c *gin.Context) {
	var req movieRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	if req.Title == nil {
		utils.Fail(c, missingFields("title"))
		return
	}

	movie := &model.Movie{}
	if _, err := req.apply(movie); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.Refs.Ensure(ctx, repository.CollectionPersons, req.personRefs()); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Movies.Create(ctx, movie); err != nil {
		utils.Fail(c, storeError(err, "A movie with this title already exists"))
		return
	}

	h.invalidateRecommendations()
	utils.Created(c, "Movie created", movie)
}

// UpdateMovie 部分更新电影
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var req movieRequest
	if err := bindJSON(c, &req); err != nil {
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

	cols, err := req.apply(movie)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if len(cols) == 0 {
		utils.Success(c, movie)
		return
	}

	if err := h.Refs.Ensure(ctx, repository.CollectionPersons, req.personRefs()); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Movies.Update(ctx, movie, cols); err != nil {
		utils.Fail(c, storeError(err, "A movie with this title already exists"))
		return
	}

	h.invalidateRecommendations()
	utils.SuccessWithMessage(c, "Movie updated", movie)
}

// DeleteMovie 删除电影
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	deleted, err := h.Movies.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !deleted {
		utils.Fail(c, utils.NotFoundError("Movie not found"))
		return
	}

	h.invalidateRecommendations()
	utils.SuccessWithMessage(c, "Movie deleted", nil)
}

// invalidateRecommendations 电影写入后相似页和榜单缓存都可能过期
func (h *Handler) invalidateRecommendations() {
	if h.Recommendations != nil {
		h.Recommendations.Invalidate()
	}
}

type personRequest struct {
	Name        *string           `json:"name" binding:"omitempty,notblank,max=200"`
	Type        *string           `json:"type" binding:"omitempty,persontype"`
	Biography   *string           `json:"biography"`
	BirthDate   *string           `json:"birthDate" binding:"omitempty,date"`
	Awards      []string          `json:"awards"`
	Photos      []string          `json:"photos" binding:"omitempty,dive,url"`
	SocialLinks map[string]string `json:"socialLinks" binding:"omitempty,dive,url"`
}

func (r *personRequest) apply(p *model.Person) ([]string, error) {
	var cols []string
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
		cols = append(cols, "name")
	}
	if r.Type != nil {
		p.Type = model.PersonType(*r.Type)
		cols = append(cols, "type")
	}
	if r.Biography != nil {
		p.Biography = *r.Biography
		cols = append(cols, "biography")
	}
	if r.BirthDate != nil {
		t, err := utils.ParseDate(*r.BirthDate)
		if err != nil {
			return nil, utils.ValidationError("Invalid birthDate")
		}
		p.BirthDate = &t
		cols = append(cols, "birth_date")
	}
	if r.Awards != nil {
		p.Awards = pq.StringArray(r.Awards)
		cols = append(cols, "awards")
	}
	if r.Photos != nil {
		p.Photos = pq.StringArray(r.Photos)
		cols = append(cols, "photos")
	}
	if r.SocialLinks != nil {
		p.SocialLinks = r.SocialLinks
		cols = append(cols, "social_links")
	}
	return cols, nil
}

// CreatePerson 创建人物
func (h *Handler) CreatePerson(c *gin.Context) {
	var req personRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	var missing []string
	if req.Name == nil {
		missing = append(missing, "name")
	}
	if req.Type == nil {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		utils.Fail(c, missingFields(missing...))
		return
	}

	person := &model.Person{Filmography: []model.FilmographyEntry{}}
	if _, err := req.apply(person); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Persons.Create(c.Request.Context(), person); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Created(c, "Person created", person)
}

// UpdatePerson 部分更新人物，作品表由电影写入维护
func (h *Handler) UpdatePerson(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var req personRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	person, err := h.Persons.FindByID(ctx, id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if person == nil {
		utils.Fail(c, utils.NotFoundError("Person not found"))
		return
	}

	cols, err := req.apply(person)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if len(cols) > 0 {
		if err := h.Persons.Update(ctx, person, cols); err != nil {
			utils.Fail(c, utils.InternalError(err))
			return
		}
	}

	utils.SuccessWithMessage(c, "Person updated", person)
}

// DeletePerson 删除人物，不会从电影中移除引用
func (h *Handler) DeletePerson(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	deleted, err := h.Persons.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !deleted {
		utils.Fail(c, utils.NotFoundError("Person not found"))
		return
	}

	utils.SuccessWithMessage(c, "Person deleted", nil)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
