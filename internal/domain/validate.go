package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var emailRe = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-.]+\.[a-z]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// 错误里用 json 字段名
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// ValidEmail 邮箱格式（大小写不敏感）
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// NormalizeEmail 去空白并转小写，唯一性按小写比较
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Validate 结构体校验，失败返回 *ValidationError
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range ves {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "can't be blank"
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "emailfmt", "email":
		return "is invalid"
	case "eqfield":
		return "doesn't match confirmation"
	}
	return "is invalid"
}

// Password 明文密码 + 确认（仅用于表单，不落库）
type Password struct {
	Password             string `json:"password" validate:"required,min=6,max=40"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"eqfield=Password"`
}

// Merge 合并多个校验结果，非 ValidationError 直接返回
func Merge(errs ...error) error {
	out := &ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve.Fields {
			out.Add(k, v)
		}
	}
	return out.OrNil()
}
