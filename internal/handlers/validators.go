package handlers

import (
	"sync"

	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs:
//
//	amounttext: well-formed non-negative decimal text, digits* ('.' digits*)?, empty allowed
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("amounttext", func(fl validator.FieldLevel) bool {
				return domain.IsValidAmountInput(fl.Field().String())
			})
		}
	})
}
