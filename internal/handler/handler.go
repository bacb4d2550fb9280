package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
	"gorm.io/gorm"
)

// Handler HTTP 处理器
type Handler struct {
	Users       UserStore
	Movies      MovieStore
	Persons     PersonStore
	ReviewIndex ReviewStore
	Discussions DiscussionStore
	Lists       CustomListStore
	News        NewsStore
	Refs        RefStore
	Stats       StatsStore

	Config          *config.Config
	Reviews         *service.ReviewService
	Recommendations *service.RecommendationService
	Notifications   *service.NotificationService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, notifications *service.NotificationService) *Handler {
	recommendations := service.NewRecommendationService(repos.Movie)
	rating := service.NewRatingService(repos.Review, repos.Movie, recommendations)

	return &Handler{
		Users:           repos.User,
		Movies:          repos.Movie,
		Persons:         repos.Person,
		ReviewIndex:     repos.Review,
		Discussions:     repos.Discussion,
		Lists:           repos.CustomList,
		News:            repos.News,
		Refs:            repos.Refs,
		Stats:           repos.Insights,
		Config:          cfg,
		Reviews:         service.NewReviewService(repos.Review, repos.Refs, rating),
		Recommendations: recommendations,
		Notifications:   notifications,
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	utils.Success(c, gin.H{"status": "ok"})
}

// bindJSON 绑定并校验请求体
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return utils.BindError(err)
	}
	return nil
}

// paramID 解析路径中的数字 ID
func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.ValidationError("Invalid %s", name)
	}
	return id, nil
}

// ensureOwner 只有资源所有者能修改，allowAdmin 为 true 时管理员也可以
func ensureOwner(c *gin.Context, ownerID int64, allowAdmin bool) error {
	if middleware.GetUserID(c) == ownerID || (allowAdmin && middleware.IsAdmin(c)) {
		return nil
	}
	return utils.ForbiddenError("You are not allowed to modify this resource")
}

// storeError 将存储层错误转换为业务错误，唯一约束冲突返回 conflictMsg
func storeError(err error, conflictMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ConflictError("%s", conflictMsg)
	}
	return utils.InternalError(err)
}

// page 分页列表响应
func page(key string, items interface{}, p utils.PageParams, total int64) gin.H {
	return gin.H{
		key:          items,
		"pagination": utils.NewPagination(p, total),
	}
}

// missingFields 创建时必填字段缺失
func missingFields(fields ...string) error {
	details := make(map[string]string, len(fields))
	for _, f := range fields {
		details[f] = "required"
	}
	return utils.ValidationError("Validation failed").WithDetail("fields", details)
}
