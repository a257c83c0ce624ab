package rest

import (
	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the custom binding rules on gin's validator.
// Call once at startup, before the router handles traffic.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return domain.ErrInternalServerError
	}
	return v.RegisterValidation("targettype", func(fl validator.FieldLevel) bool {
		return domain.TargetType(fl.Field().String()).Valid()
	})
}
