// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches plausible ticker symbols: letters, digits, and the
// separators brokers use for share classes and foreign listings.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-^]{0,11}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset_kind", validateAssetKind)
		_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateAssetKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stock", "etf":
		return true
	}
	return false
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "purchase", "dividend":
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}
