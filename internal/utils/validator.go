package utils

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinelog/internal/model"
)

// dateLayouts 接受的日期格式
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate 解析 RFC3339 或 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// MaxPasswordBytes bcrypt 只接受 72 字节以内的输入
const MaxPasswordBytes = 72

// ValidPassword 密码强度：8 到 72 字节，至少包含一个字母和一个数字
func ValidPassword(s string) bool {
	if len(s) < 8 || len(s) > MaxPasswordBytes {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// RegisterValidators 在 gin 的校验引擎上注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	// 错误详情中使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]func(string) bool{
		"password":           ValidPassword,
		"agerating":          model.IsAgeRating,
		"persontype":         model.IsPersonType,
		"newscategory":       model.IsNewsCategory,
		"discussioncategory": model.IsDiscussionCategory,
		"role":               func(s string) bool { return model.Role(s).Valid() },
		"date": func(s string) bool {
			_, err := ParseDate(s)
			return err == nil
		},
		"notblank": func(s string) bool { return strings.TrimSpace(s) != "" },
	}
	for tag, fn := range rules {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}

// BindError 将绑定/校验错误转换为 400 业务错误，详情为 {字段: 规则}
func BindError(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		appErr := ValidationError("Validation failed")
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return appErr.WithDetail("fields", fields)
	}
	return ValidationError("Invalid request body").WithDetail("reason", err.Error())
}
