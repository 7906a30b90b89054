package web

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/scienceol/lims/pkg/repo/model"
)

var validatorOnce sync.Once

// RegisterValidators adds the enum tags used by request bindings to gin's
// validator engine.
func RegisterValidators() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return model.OrderStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
			return model.RequestStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("reagent_package", func(fl validator.FieldLevel) bool {
			return model.Package(fl.Field().String()).Valid()
		})
	})
}
