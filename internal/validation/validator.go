package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for CreateSessionRequest to ensure
	// the shopper is reachable on at least one contact channel.
	v.RegisterStructValidation(createSessionStructValidation, CreateSessionRequest{})

	return v
}

// createSessionStructValidation requires at least one of email or phone; the
// gateway needs a contact channel for payment-pending follow-ups.
func createSessionStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateSessionRequest)

	if req.Email == "" && req.Phone == "" {
		sl.ReportError(req.Email, "email", "Email", "contact_required", "one of email or phone must be set")
	}
}
