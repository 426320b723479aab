package rest

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"waybackhome/internal/domain"
)

var registerOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("eventcode", func(fl validator.FieldLevel) bool {
			return domain.EventCodePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return domain.ValidateUsername(fl.Field().String()) == nil
		})
	})
}
