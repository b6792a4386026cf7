package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/transitpadi/transit-backend/pkg/common"
)

var (
	// Validate is the global validator instance
	Validate *validator.Validate

	// E.164 with the common local 0-prefixed Nigerian form allowed
	phoneRegex = regexp.MustCompile(`^(\+?[1-9]\d{6,14}|0\d{10})$`)
)

func init() {
	Validate = validator.New()

	// Request structs carry gin-style binding tags; honor them here too so
	// services can re-validate without duplicate tag sets
	Validate.SetTagName("binding")

	_ = Validate.RegisterValidation("phone", validatePhone)
	_ = Validate.RegisterValidation("future", validateFutureTime)
	_ = Validate.RegisterValidation("booking_type", validateBookingType)
	_ = Validate.RegisterValidation("discount_type", validateDiscountType)
}

// ValidateStruct validates a struct and returns a readable error on failure
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return common.NewValidationError("validation failed: " + strings.Join(messages, "; "))
	}

	return common.NewValidationError(err.Error())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateFutureTime(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

func validateBookingType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "passenger", "charter":
		return true
	}
	return false
}

func validateDiscountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "fixed", "percentage":
		return true
	}
	return false
}
