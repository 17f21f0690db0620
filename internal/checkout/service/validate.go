package service

import (
	"regexp"
	"strings"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateCustomer runs field-presence and format checks. Notes is the only
// optional field.
func validateCustomer(customer d.CustomerInfo) *d.ValidationError {
	fields := map[string]string{}

	required := []struct {
		name  string
		value string
	}{
		{"full_name", customer.FullName},
		{"email", customer.Email},
		{"phone", customer.Phone},
		{"address", customer.Address},
		{"city", customer.City},
		{"state", customer.State},
		{"postal_code", customer.PostalCode},
		{"country", customer.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields[f.name] = "required"
		}
	}

	if _, ok := fields["email"]; !ok && !emailShape.MatchString(customer.Email) {
		fields["email"] = "must be a valid email address"
	}

	if len(fields) == 0 {
		return nil
	}
	return &d.ValidationError{Fields: fields}
}
