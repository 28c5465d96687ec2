package utils

import (
	"regexp"
	"strings"

	"github.com/Govind-619/StoreSphere/models"
)

var (
	streetRegex = regexp.MustCompile(`^[a-zA-Z0-9\s,.'#\-/]+$`)
	cityRegex   = regexp.MustCompile(`^[a-zA-Z\s.\-]+$`)
)

// ValidateShippingAddress checks a shipping address snapshot and normalises its phone
func ValidateShippingAddress(addr *models.ShippingAddress) FieldValidationErrors {
	errs := FieldValidationErrors{}

	addr.Name = strings.TrimSpace(addr.Name)
	if addr.Name == "" {
		errs = append(errs, FieldValidationError{"name", "Name is required"})
	} else if len(addr.Name) > 100 {
		errs = append(errs, FieldValidationError{"name", "Name must not exceed 100 characters"})
	}

	addr.Street = strings.TrimSpace(addr.Street)
	if addr.Street == "" {
		errs = append(errs, FieldValidationError{"street", "Street is required"})
	} else {
		if len(addr.Street) > 200 {
			errs = append(errs, FieldValidationError{"street", "Street must not exceed 200 characters"})
		}
		if !streetRegex.MatchString(addr.Street) {
			errs = append(errs, FieldValidationError{"street", "Street contains invalid characters"})
		}
	}

	addr.City = strings.TrimSpace(addr.City)
	if addr.City == "" {
		errs = append(errs, FieldValidationError{"city", "City is required"})
	} else if !cityRegex.MatchString(addr.City) {
		errs = append(errs, FieldValidationError{"city", "City must only contain letters and spaces"})
	}

	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	if !pincodeRegex.MatchString(addr.PostalCode) {
		errs = append(errs, FieldValidationError{"postal_code", "Postal code must be 4 to 10 digits"})
	}

	if addr.Phone != "" {
		phone, err := FormatPhoneNumber(addr.Phone)
		if err != nil {
			errs = append(errs, FieldValidationError{"phone", err.Error()})
		} else {
			addr.Phone = phone
		}
	}

	if addr.Email != "" {
		if ok, msg := ValidateEmail(addr.Email); !ok {
			errs = append(errs, FieldValidationError{"email", msg})
		}
	}

	addr.Country = strings.TrimSpace(addr.Country)
	if addr.Country == "" {
		addr.Country = "India"
	}
	return errs
}
