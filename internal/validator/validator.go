// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"networth/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cex_exchange", validateExchange)
		_ = v.RegisterValidation("institution", validateInstitution)
		_ = v.RegisterValidation("deposit_type", validateDepositType)
		_ = v.RegisterValidation("display_currency", validateCurrency)
	}
}

func validateExchange(fl validator.FieldLevel) bool {
	return models.Exchange(fl.Field().String()).Valid()
}

func validateInstitution(fl validator.FieldLevel) bool {
	return models.Institution(fl.Field().String()).Valid()
}

func validateDepositType(fl validator.FieldLevel) bool {
	return models.DepositType(fl.Field().String()).Valid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	return models.Currency(fl.Field().String()).Valid()
}
