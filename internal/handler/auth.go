package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username" binding:"required_without=Email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary  Register a new account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body registerRequest true "account"
// @Success  201 {object} utils.Response
// @Failure  400 {object} utils.Response
// @Router   /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.Role(req.Role)
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     role,
	}
	if err := h.Users.Create(c.Request.Context(), user, req.Password); err != nil {
		utils.Fail(c, storeError(err, "Username or email already exists"))
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Created(c, "User registered", gin.H{"user": user, "token": token})
}

// Login 登录，邮箱或用户名均可
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} utils.Response
// @Failure  401 {object} utils.Response
// @Router   /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		user *model.User
		err  error
	)
	if req.Email != "" {
		user, err = h.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	} else {
		user, err = h.Users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	}
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	// 用户不存在与密码错误返回相同提示
	if user == nil || !h.Users.CheckPassword(user, req.Password) {
		utils.Fail(c, utils.UnauthorizedError("Invalid credentials"))
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		utils.Fail(c, utils.InternalError(err))
		return
	}

	utils.Success(c, gin.H{"token": token, "user": user})
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user)
}

// currentUser 按 token 中的用户 ID 读取完整用户
func (h *Handler) currentUser(c *gin.Context) (*model.User, error) {
	user, err := h.Users.FindByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("User not found")
	}
	return user, nil
}

// generateToken 生成 JWT
func (h *Handler) generateToken(user *model.User) (string, error) {
	return middleware.GenerateToken(user.ID, user.Username, string(user.Role), h.Config.JWTSecret, h.Config.JWTExpiry)
}
