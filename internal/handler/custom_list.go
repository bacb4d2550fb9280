package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

const duplicateListName = "You already have a list with this name"

type customListRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=100"`
	Description string  `json:"description" binding:"max=1000"`
	Movies      []int64 `json:"movies" binding:"omitempty,dive,gt=0"`
}

type updateCustomListRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type listMovieRequest struct {
	MovieID int64 `json:"movieId" binding:"required,gt=0"`
}

// CreateCustomList 创建片单
// @Summary  Create a custom list
// @Tags     customlist
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body customListRequest true "list"
// @Success  201 {object} utils.Response
// @Failure  400 {object} utils.Response "validation error or duplicate name"
// @Router   /api/customlist [post]
func (h *Handler) CreateCustomList(c *gin.Context) {
	var req customListRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.Refs.Ensure(ctx, repository.CollectionMovies, req.Movies); err != nil {
		utils.Fail(c, err)
		return
	}

	list := &model.CustomList{
		UserID:      middleware.GetUserID(c),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MovieIDs:    dedupeIDs(req.Movies),
	}
	if err := h.Lists.Create(ctx, list); err != nil {
		utils.Fail(c, storeError(err, duplicateListName))
		return
	}

	utils.Created(c, "List created", list)
}

// MyCustomLists 当前用户的片单
func (h *Handler) MyCustomLists(c *gin.Context) {
	p := utils.ParsePage(c, 0)
	lists, total, err := h.Lists.ListByUser(c.Request.Context(), middleware.GetUserID(c), p.Offset(), p.Limit)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, page("lists", lists, p, total))
}

// GetCustomList 片单详情，电影展开
func (h *Handler) GetCustomList(c *gin.Context) {
	list, err := h.loadList(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	movies, err := h.Movies.FindByIDs(c.Request.Context(), list.MovieIDs)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, gin.H{"list": list, "movies": movies})
}

// UpdateCustomList 修改名称或描述（所有者）
func (h *Handler) UpdateCustomList(c *gin.Context) {
	var req updateCustomListRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	list, err := h.loadList(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, list.UserID, false); err != nil {
		utils.Fail(c, err)
		return
	}

	if req.Name != nil {
		list.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		list.Description = *req.Description
	}
	if err := h.Lists.Update(c.Request.Context(), list); err != nil {
		utils.Fail(c, storeError(err, duplicateListName))
		return
	}

	utils.SuccessWithMessage(c, "List updated", list)
}

// DeleteCustomList 删除片单（所有者或管理员）
func (h *Handler) DeleteCustomList(c *gin.Context) {
	list, err := h.loadList(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, list.UserID, true); err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.Lists.Delete(c.Request.Context(), list); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "List deleted", nil)
}

// AddMovieToList 片单加入电影
// @Summary  Add a movie to a custom list
// @Tags     customlist
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int              true "list id"
// @Param    body body listMovieRequest true "movie"
// @Success  200 {object} utils.Response
// @Failure  400 {object} utils.Response "movie already in the list"
// @Failure  403 {object} utils.Response
// @Failure  404 {object} utils.Response
// @Router   /api/customlist/{id}/add-movie [post]
func (h *Handler) AddMovieToList(c *gin.Context) {
	var req listMovieRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	list, err := h.loadList(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, list.UserID, false); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	ok, err := h.Refs.Exists(ctx, repository.CollectionMovies, req.MovieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !ok {
		utils.Fail(c, utils.NotFoundError("Movie not found"))
		return
	}

	added, err := h.Lists.AddMovie(ctx, list.ID, req.MovieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !added {
		utils.Fail(c, utils.ConflictError("Movie already in the list"))
		return
	}

	utils.SuccessWithMessage(c, "Movie added to the list", gin.H{"listId": list.ID, "movieId": req.MovieID})
}

// RemoveMovieFromList 片单移除电影
func (h *Handler) RemoveMovieFromList(c *gin.Context) {
	var req listMovieRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	list, err := h.loadList(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := ensureOwner(c, list.UserID, false); err != nil {
		utils.Fail(c, err)
		return
	}

	removed, err := h.Lists.RemoveMovie(c.Request.Context(), list.ID, req.MovieID)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if !removed {
		utils.Fail(c, utils.NotFoundError("Movie not in the list"))
		return
	}

	utils.SuccessWithMessage(c, "Movie removed from the list", gin.H{"listId": list.ID, "movieId": req.MovieID})
}

func (h *Handler) loadList(c *gin.Context) (*model.CustomList, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}

	list, err := h.Lists.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if list == nil {
		return nil, utils.NotFoundError("List not found")
	}
	return list, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
