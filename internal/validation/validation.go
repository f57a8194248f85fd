// Package validation checks request DTOs against their validate tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	emailPattern   = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	otpPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	nonDigits      = regexp.MustCompile(`[^0-9]`)
)

// Validator wraps a configured validator.Validate.
type Validator struct {
	v *validator.Validate
}

// New registers the storefront rules: phone10, pincode, storeemail and otp6.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "phone10", phonePattern)
	mustRegister(v, "pincode", pincodePattern)
	mustRegister(v, "storeemail", emailPattern)
	mustRegister(v, "otp6", otpPattern)
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Struct validates s and returns an error whose message names the first
// failing field in client terms.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "phone10":
		return "Please provide a valid 10-digit phone number"
	case "pincode":
		return "Please provide a valid 6-digit pincode"
	case "storeemail":
		return "Please provide a valid email"
	case "otp6":
		return "Please provide a valid 6-digit OTP"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// CleanPhone strips everything but digits.
func CleanPhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidPhone reports whether phone is exactly ten digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether email has a plausible address shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
