package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

type discussionRequest struct {
	Title    *string `json:"title" binding:"omitempty,notblank,max=300"`
	Content  *string `json:"content" binding:"omitempty,notblank"`
	Category *string `json:"category" binding:"omitempty,discussioncategory"`
	Movies   []int64 `json:"movies" binding:"omitempty,dive,gt=0"`
}

func (r *discussionRequest) apply(d *model.Discussion) []string {
	var cols []string
	if r.Title != nil {
		d.Title = strings.TrimSpace(*r.Title)
		cols = append(cols, "title")
	}
	if r.Content != nil {
		d.Content = *r.Content
		cols = append(cols, "content")
	}
	if r.Category != nil {
		d.Category = *r.Category
		cols = append(cols, "category")
	}
	if r.Movies != nil {
		d.MovieIDs = pq.Int64Array(dedupeIDs(r.Movies))
		cols = append(cols, "movie_ids")
	}
	return cols
}

type commentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000"`
}

// ListDiscussions 讨论列表，可按分类过滤
func (h *Handler) ListDiscussions(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !model.IsDiscussionCategory(category) {
		utils.Fail(c, utils.ValidationError("Invalid category").WithDetail("category", category))
		return
	}

	p := utils.ParsePage(c, 0)
	list, total, err := h.Discussions.List(c.Request.Context(), category, p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("discussions", list, p, total))
}

// GetDiscussion 讨论详情，包含评论
func (h *Handler) GetDiscussion(c *gin.Context) {
	d, err := h.loadDiscussion(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, d)
}

// CreateDiscussion 发起讨论
// @Summary  Create a discussion
// @Tags     discussion
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body discussionRequest true "discussion"
// @Success  201 {object} utils.Response
// @Failure  400 {object} utils.Response
// @Router   /api/discussion [post]
func (h *Handler) CreateDiscussion(c *gin.Context) {
	var req discussionRequest
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
	if len(missing) > 0 {
		utils.Fail(c, missingFields(missing...))
		return
	}

	ctx := c.Request.Context()
	if err := h.Refs.Ensure(ctx, repository.CollectionMovies, req.Movies); err != nil {
		utils.Fail(c, err)
		return
	}

	d := &model.Discussion{Category: "general", CreatorID: middleware.GetUserID(c)}
	req.apply(d)
	if err := h.Discussions.Create(ctx, d); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Created(c, "Discussion created", d)
}

// UpdateDiscussion 修改讨论（发起人或管理员）
func (h *Handler) UpdateDiscussion(c *gin.Context) {
	var req discussionRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	d, err := h.loadDiscussion(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, d.CreatorID, true); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.Refs.Ensure(ctx, repository.CollectionMovies, req.Movies); err != nil {
		utils.Fail(c, err)
		return
	}

	cols := req.apply(d)
	if len(cols) == 0 {
		utils.Success(c, d)
		return
	}
	if err := h.Discussions.Update(ctx, d, cols); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "Discussion updated", d)
}

// DeleteDiscussion 删除讨论（发起人或管理员）
func (h *Handler) DeleteDiscussion(c *gin.Context) {
	d, err := h.loadDiscussion(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, d.CreatorID, true); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Discussions.Delete(c.Request.Context(), d.ID); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "Discussion deleted", nil)
}

// AddComment 发表评论
func (h *Handler) AddComment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(req.Content),
		AuthorID:  middleware.GetUserID(c),
		CreatedAt: time.Now(),
	}
	ok, err := h.Discussions.AppendComment(c.Request.Context(), id, comment)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !ok {
		utils.Fail(c, utils.NotFoundError("Discussion not found"))
		return
	}

	utils.Created(c, "Comment added", comment)
}

// DeleteComment 删除评论（评论作者或管理员）
func (h *Handler) DeleteComment(c *gin.Context) {
	d, err := h.loadDiscussion(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	commentID := c.Param("commentId")
	comment, found := d.FindComment(commentID)
	if !found {
		utils.Fail(c, utils.NotFoundError("Comment not found"))
		return
	}
	if err := ensureOwner(c, comment.AuthorID, true); err != nil {
		utils.Fail(c, err)
		return
	}

	removed, err := h.Discussions.RemoveComment(c.Request.Context(), d.ID, commentID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !removed {
		// 并发删除
		utils.Fail(c, utils.NotFoundError("Comment not found"))
		return
	}

	utils.SuccessWithMessage(c, "Comment deleted", nil)
}

func (h *Handler) loadDiscussion(c *gin.Context, param string) (*model.Discussion, error) {
	id, err := paramID(c, param)
	if err != nil {
		return nil, err
	}

	d, err := h.Discussions.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if d == nil {
		return nil, utils.NotFoundError("Discussion not found")
	}
	return d, nil
}
