package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// ValidationError carries field-level problems with the customer form. It is
// raised before any network call and never touches the cart.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid customer info: %s", strings.Join(names, ", "))
}

// SubmissionError means the order collaborator failed or reported failure.
// The cart is preserved and the shopper may retry.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// ConfigurationError is fatal for the session: a required collaborator is
// not configured at all. Not recoverable by the shopper.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("checkout misconfigured: %s is not set", e.Missing)
}
