package middleware

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/utils"
)

// 权限对象
const (
	ObjMovie        = "movie"
	ObjPerson       = "person"
	ObjNews         = "news"
	ObjNotification = "notification"
	ObjInsights     = "insights"
	ObjReview       = "review"
	ObjCustomList   = "customlist"
	ObjDiscussion   = "discussion"
	ObjWishlist     = "wishlist"
	ObjProfile      = "profile"
)

// 权限动作
const (
	ActRead    = "read"
	ActWrite   = "write"
	ActTrigger = "trigger"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// 角色能力表，admin 继承 user
var defaultPolicies = [][]string{
	{"user", ObjReview, ActWrite},
	{"user", ObjCustomList, ActWrite},
	{"user", ObjDiscussion, ActWrite},
	{"user", ObjWishlist, ActWrite},
	{"user", ObjProfile, ActWrite},
	{"admin", ObjMovie, ActWrite},
	{"admin", ObjPerson, ActWrite},
	{"admin", ObjNews, ActWrite},
	{"admin", ObjNotification, ActTrigger},
	{"admin", ObjInsights, ActRead},
}

// Policy 基于 casbin 的角色能力校验
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy 加载内置的角色能力表
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicy("admin", "user"); err != nil {
		return nil, fmt.Errorf("add role inheritance: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// Allowed 角色是否拥有某项能力
func (p *Policy) Allowed(role, obj, act string) bool {
	if role == "" {
		return false
	}
	ok, err := p.enforcer.Enforce(role, obj, act)
	return err == nil && ok
}

// RequireCapability 需在 RequireAuth 之后使用，缺少能力返回 403
func (p *Policy) RequireCapability(obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.Allowed(GetRole(c), obj, act) {
			utils.Fail(c, utils.ForbiddenError("Access denied"))
			return
		}
		c.Next()
	}
}
