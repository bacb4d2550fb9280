package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// Wishlist 愿望单（分页展开为电影）
func (h *Handler) Wishlist(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	p := utils.ParsePage(c, 0)
	ids := utils.PageSlice([]int64(user.Wishlist), p)
	movies, err := h.Movies.FindByIDs(c.Request.Context(), ids)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("movies", movies, p, int64(len(user.Wishlist))))
}

// AddToWishlist 加入愿望单
// @Summary  Add a movie to the wishlist
// @Tags     wishlist
// @Produce  json
// @Security BearerAuth
// @Param    movieId path int true "movie id"
// @Success  200 {object} utils.Response
// @Failure  400 {object} utils.Response "already in wishlist"
// @Failure  404 {object} utils.Response
// @Router   /api/wishlist/{movieId} [post]
func (h *Handler) AddToWishlist(c *gin.Context) {
	movieID, err := paramID(c, "movieId")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	ok, err := h.Refs.Exists(ctx, repository.CollectionMovies, movieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !ok {
		utils.Fail(c, utils.NotFoundError("Movie not found"))
		return
	}

	added, err := h.Users.AddToWishlist(ctx, middleware.GetUserID(c), movieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !added {
		utils.Fail(c, utils.ConflictError("Movie already in wishlist"))
		return
	}

	utils.SuccessWithMessage(c, "Movie added to wishlist", gin.H{"movieId": movieID})
}

// RemoveFromWishlist 移出愿望单
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	movieID, err := paramID(c, "movieId")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	removed, err := h.Users.RemoveFromWishlist(c.Request.Context(), middleware.GetUserID(c), movieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !removed {
		utils.Fail(c, utils.NotFoundError("Movie not in wishlist"))
		return
	}

	utils.SuccessWithMessage(c, "Movie removed from wishlist", gin.H{"movieId": movieID})
}
