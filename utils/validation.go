package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	pincodeRegex = regexp.MustCompile(`^[0-9]{4,10}$`)
	hasLetter    = regexp.MustCompile(`[A-Za-z]`)
	hasNumber    = regexp.MustCompile(`[0-9]`)
)

func oneOf(list []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		for _, allowed := range list {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// RegisterValidators adds the domain tags to gin's validator:
// discount_type, banner_type, target_type, delivery_unit and pincode.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	rules := map[string]validator.Func{
		"discount_type": oneOf([]string{models.DiscountPercentage, models.DiscountFlat}),
		"banner_type":   oneOf(models.BannerTypes),
		"target_type":   oneOf(models.TargetTypes),
		"delivery_unit": oneOf([]string{models.DeliveryUnitHours, models.DeliveryUnitDays, models.DeliveryUnitMinutes}),
		"pincode": func(fl validator.FieldLevel) bool {
			return pincodeRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// ValidationMessages flattens validator errors into field messages
func ValidationMessages(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	out := make(FieldValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("failed on '%s'", fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		out = append(out, FieldValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

// ValidateEmail checks the email format
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword requires 8+ characters with at least one letter and one digit
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !hasLetter.MatchString(password) {
		return false, "Password must contain at least one letter"
	}
	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// FormatPhoneNumber formats and validates an Indian mobile number
func FormatPhoneNumber(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}
	if len(phone) != 10 {
		return "", fmt.Errorf("phone number must be exactly 10 digits")
	}
	if phone[0] < '6' || phone[0] > '9' {
		return "", fmt.Errorf("phone number must start with 6, 7, 8, or 9")
	}
	return phone, nil
}

// ClampPercent bounds a position coordinate to 0..100
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
