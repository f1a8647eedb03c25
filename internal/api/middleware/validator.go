package middleware

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/social-graph/internal/model"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,64}$`)

// RegisterValidators 在 gin 的校验器上注册自定义 tag
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("story_visibility", func(fl validator.FieldLevel) bool {
		return model.StoryVisibility(fl.Field().String()).Valid()
	})
}
