package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/utils"
)

// SimilarMovies 相似电影
// @Summary  Movies similar to the given one
// @Tags     recommendations
// @Produce  json
// @Param    movieId path  int true  "source movie id"
// @Param    page    query int false "page"
// @Param    limit   query int false "page size"
// @Success  200 {object} utils.Response
// @Failure  404 {object} utils.Response
// @Router   /api/recommendations/similar/{movieId} [get]
func (h *Handler) SimilarMovies(c *gin.Context) {
	id, err := paramID(c, "movieId")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	result, err := h.Recommendations.Similar(c.Request.Context(), id, utils.ParsePage(c, utils.MaxSearchLimit))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}

// PersonalizedMovies 个性化推荐
func (h *Handler) PersonalizedMovies(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	result, err := h.Recommendations.Personalized(c.Request.Context(), user, utils.ParsePage(c, utils.MaxSearchLimit))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}

// TopRatedMovies 高分榜
func (h *Handler) TopRatedMovies(c *gin.Context) {
	result, err := h.Recommendations.TopRated(c.Request.Context(), utils.ParsePage(c, utils.MaxSearchLimit))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}

// TrendingMovies 热门榜
func (h *Handler) TrendingMovies(c *gin.Context) {
	result, err := h.Recommendations.Trending(c.Request.Context(), utils.ParsePage(c, utils.MaxSearchLimit))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}
