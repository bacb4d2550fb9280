package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

type newsRequest struct {
	Title          *string `json:"title" binding:"omitempty,notblank,max=300"`
	Description    *string `json:"description" binding:"omitempty,max=1000"`
	Content        *string `json:"content" binding:"omitempty,notblank"`
	Category       *string `json:"category" binding:"omitempty,newscategory"`
	RelatedMovies  []int64 `json:"relatedMovies" binding:"omitempty,dive,gt=0"`
	RelatedPersons []int64 `json:"relatedPersons" binding:"omitempty,dive,gt=0"`
	PublishDate    *string `json:"publishDate" binding:"omitempty,date"`
}

func (r *newsRequest) apply(n *model.News) ([]string, error) {
	var cols []string
	if r.Title != nil {
		n.Title = strings.TrimSpace(*r.Title)
		cols = append(cols, "title")
	}
	if r.Description != nil {
		n.Description = *r.Description
		cols = append(cols, "description")
	}
	if r.Content != nil {
		n.Content = *r.Content
		cols = append(cols, "content")
	}
	if r.Category != nil {
		n.Category = *r.Category
		cols = append(cols, "category")
	}
	if r.RelatedMovies != nil {
		n.MovieIDs = pq.Int64Array(dedupeIDs(r.RelatedMovies))
		cols = append(cols, "movie_ids")
	}
	if r.RelatedPersons != nil {
		n.PersonIDs = pq.Int64Array(dedupeIDs(r.RelatedPersons))
		cols = append(cols, "person_ids")
	}
	if r.PublishDate != nil {
		t, err := utils.ParseDate(*r.PublishDate)
		if err != nil {
			return nil, utils.ValidationError("Invalid publishDate")
		}
		n.PublishDate = t
		cols = append(cols, "publish_date")
	}
	return cols, nil
}

// ensureRefs 校验关联的电影与人物都存在
func (r *newsRequest) ensureRefs(c *gin.Context, refs RefStore) error {
	ctx := c.Request.Context()
	if err := refs.Ensure(ctx, repository.CollectionMovies, r.RelatedMovies); err != nil {
		return err
	}
	return refs.Ensure(ctx, repository.CollectionPersons, r.RelatedPersons)
}

// ListNews 新闻列表，发布时间倒序
// @Summary  List news
// @Tags     news
// @Produce  json
// @Param    category query string false "movies | celebrities | industry | awards | events"
// @Param    page     query int    false "page"
// @Param    limit    query int    false "page size"
// @Success  200 {object} utils.Response
// @Router   /api/news [get]
func (h *Handler) ListNews(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !model.IsNewsCategory(category) {
		utils.Fail(c, utils.ValidationError("Invalid category").WithDetail("category", category))
		return
	}

	p := utils.ParsePage(c, 0)
	list, total, err := h.News.List(c.Request.Context(), category, p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("news", list, p, total))
}

// GetNews 新闻详情
func (h *Handler) GetNews(c *gin.Context) {
	news, err := h.loadNews(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, news)
}

// CreateNews 发布新闻（管理员）
func (h *Handler) CreateNews(c *gin.Context) {
	var req newsRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	var missing []string
	if req.Title == nil {
		missing = append(missing, "title")
	}
	if req.Content == nil {
		missing = append(missing, "content")
	}
	if req.Category == nil {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		utils.Fail(c, missingFields(missing...))
		return
	}

	news := &model.News{PublishDate: time.Now()}
	if _, err := req.apply(news); err != nil {
		utils.Fail(c, err)
		return
	}
	if err := req.ensureRefs(c, h.Refs); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.News.Create(c.Request.Context(), news); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Created(c, "News created", news)
}

// UpdateNews 部分更新新闻（管理员）
func (h *Handler) UpdateNews(c *gin.Context) {
	var req newsRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	news, err := h.loadNews(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	cols, err := req.apply(news)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if len(cols) == 0 {
		utils.Success(c, news)
		return
	}
	if err := req.ensureRefs(c, h.Refs); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.News.Update(c.Request.Context(), news, cols); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "News updated", news)
}

// DeleteNews 删除新闻（管理员）
func (h *Handler) DeleteNews(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	deleted, err := h.News.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !deleted {
		utils.Fail(c, utils.NotFoundError("News not found"))
		return
	}

	utils.SuccessWithMessage(c, "News deleted", nil)
}

func (h *Handler) loadNews(c *gin.Context) (*model.News, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}

	news, err := h.News.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if news == nil {
		return nil, utils.NotFoundError("News not found")
	}
	return news, nil
}
