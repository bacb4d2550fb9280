package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

var errNotificationsDisabled = errors.New("notification service is not configured")

type preferencesRequest struct {
	ReleaseReminders    *bool `json:"releaseReminders"`
	FavoriteActorAlerts *bool `json:"favoriteActorAlerts"`
}

// GetPreferences 当前用户的通知偏好
func (h *Handler) GetPreferences(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user.Notifications)
}

// UpdatePreferences 修改通知偏好，未提供的开关保持不变
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	prefs := user.Notifications
	if req.ReleaseReminders != nil {
		prefs.ReleaseReminders = *req.ReleaseReminders
	}
	if req.FavoriteActorAlerts != nil {
		prefs.FavoriteActorAlerts = *req.FavoriteActorAlerts
	}

	if err := h.Users.UpdateNotifications(c.Request.Context(), middleware.GetUserID(c), prefs); err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.SuccessWithMessage(c, "Preferences updated", prefs)
}

// SendNotifications 手动触发上映提醒（管理员）
// @Summary  Run the release reminder batch now
// @Tags     notifications
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} utils.Response
// @Failure  403 {object} utils.Response
// @Router   /api/notifications/send [post]
func (h *Handler) SendNotifications(c *gin.Context) {
	if h.Notifications == nil {
		utils.Fail(c, utils.InternalError(errNotificationsDisabled))
		return
	}

	report, err := h.Notifications.Trigger(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Notifications processed", report)
}
