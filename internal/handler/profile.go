package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

type updateProfileRequest struct {
	Nickname       *string  `json:"nickname" binding:"omitempty,max=50"`
	Bio            *string  `json:"bio" binding:"omitempty,max=1000"`
	FavoriteGenres []string `json:"favoriteGenres" binding:"omitempty,dive,notblank"`
	FavoriteActors []int64  `json:"favoriteActors" binding:"omitempty,dive,gt=0"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,password"`
}

// GetProfile 自己的完整资料
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user)
}

// UpdateProfile 更新资料，喜欢的演员必须存在且类型为 actor
// @Summary  Update own profile
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body updateProfileRequest true "profile fields"
// @Success  200 {object} utils.Response
// @Failure  400 {object} utils.Response
// @Router   /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if len(req.FavoriteActors) > 0 {
		err := h.Refs.Ensure(ctx, repository.CollectionPersons, req.FavoriteActors, repository.OfPersonType(model.PersonActor))
		if err != nil {
			utils.Fail(c, err)
			return
		}
	}

	update := repository.ProfileUpdate{
		Nickname:         req.Nickname,
		Bio:              req.Bio,
		FavoriteActorIDs: dedupeIDsOrNil(req.FavoriteActors),
	}
	if req.FavoriteGenres != nil {
		update.FavoriteGenres = trimAll(req.FavoriteGenres)
	}
	if err := h.Users.UpdateProfile(ctx, middleware.GetUserID(c), update); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Profile updated", user)
}

// ChangePassword 修改密码，需校验旧密码
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !h.Users.CheckPassword(user, req.OldPassword) {
		utils.Fail(c, utils.UnauthorizedError("Current password is incorrect"))
		return
	}

	if err := h.Users.UpdatePassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "Password updated", nil)
}

// PublicProfile 其他用户的公开资料
func (h *Handler) PublicProfile(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}
	if user == nil {
		utils.Fail(c, utils.NotFoundError("User not found"))
		return
	}

	utils.Success(c, user.Public())
}

func dedupeIDsOrNil(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	return dedupeIDs(ids)
}
