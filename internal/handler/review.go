package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

type createReviewRequest struct {
	Movie  int64  `json:"movie" binding:"required,gt=0"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text" binding:"max=5000"`
}

type updateReviewRequest struct {
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Text   *string `json:"text" binding:"omitempty,max=5000"`
}

// CreateReview 发表影评，每人每部电影一条
// @Summary  Review a movie
// @Tags     reviews
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body createReviewRequest true "review"
// @Success  201 {object} utils.Response
// @Failure  400 {object} utils.Response "validation error or already reviewed"
// @Failure  404 {object} utils.Response
// @Router   /api/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), middleware.GetUserID(c), req.Movie, req.Rating, req.Text)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Created(c, "Review created", review)
}

// UpdateReview 修改影评（作者本人）
func (h *Handler) UpdateReview(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var req updateReviewRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	review, err := h.Reviews.Get(ctx, id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, review.UserID, false); err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Text != nil {
		review.Text = *req.Text
	}
	if err := h.Reviews.Update(ctx, review); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Review updated", review)
}

// DeleteReview 删除影评（作者或管理员）
func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	review, err := h.Reviews.Get(ctx, id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, review.UserID, true); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Reviews.Delete(ctx, review); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Review deleted", nil)
}

// MyReviews 当前用户的影评
func (h *Handler) MyReviews(c *gin.Context) {
	p := utils.ParsePage(c, 0)
	reviews, total, err := h.ReviewIndex.ListByUser(c.Request.Context(), middleware.GetUserID(c), p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("reviews", reviews, p, total))
}
