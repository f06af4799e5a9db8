package utils

import (
	"strings"
	"unicode"

	"myarc/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxCategoryLength = 40

// InitValidator registers the custom binding rules on gin's validator engine.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("pin", ValidatePINRule)
	v.RegisterValidation("category", ValidateCategoryRule)
}

func ValidatePINRule(fl validator.FieldLevel) bool {
	return ValidatePIN(fl.Field().String())
}

func ValidateCategoryRule(fl validator.FieldLevel) bool {
	return ValidateCategoryName(fl.Field().String())
}

// ValidatePIN accepts exactly four ASCII digits.
func ValidatePIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateCategoryName accepts a non-blank, printable, non-reserved name.
func ValidateCategoryName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxCategoryLength {
		return false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return !model.IsReservedCategory(name)
}
