package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,20}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Coupon code: uppercase alphanumeric, 4-20 characters
	validate.RegisterValidation("coupon_code", func(fl validator.FieldLevel) bool {
		return couponCodePattern.MatchString(fl.Field().String())
	})

	// Coupon discount type
	validate.RegisterValidation("discount_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "percentage", "fixed":
			return true
		}
		return false
	})

	// Loyalty reward type
	validate.RegisterValidation("reward_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "free_item", "fixed_discount", "percentage_discount":
			return true
		}
		return false
	})

	// Staff role
	validate.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "admin", "manager", "staff":
			return true
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "coupon_code":
			errors[field] = "Code must be 4-20 uppercase letters or digits"
		case "discount_type":
			errors[field] = "Invalid discount type. Must be: percentage or fixed"
		case "reward_type":
			errors[field] = "Invalid reward type. Must be: free_item, fixed_discount, or percentage_discount"
		case "staff_role":
			errors[field] = "Invalid role. Must be: admin, manager, or staff"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
