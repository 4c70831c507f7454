package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// jsonFieldNames maps DTO struct field names to their wire names so
// validation messages talk about the JSON the client actually sent.
var jsonFieldNames = map[string]string{
	"Name":               "name",
	"PhoneNumber":        "phone_number",
	"Email":              "email",
	"UserNumber":         "user_number",
	"DealerNumber":       "dealer_number",
	"DealerName":         "dealer_name",
	"DealerPincode":      "dealer_pincode",
	"DistributorNumber":  "distributor_number",
	"DistributorName":    "distributor_name",
	"DistributorPincode": "distributor_pincode",
	"Password":           "password",
}

// formatValidationError converts validator errors to client-facing messages.
// Only the first failed field is reported, matching the fail-fast contract.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := jsonFieldNames[fe.Field()]
			if field == "" {
				field = fe.Field()
			}

			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "phone":
				return "invalid phone number format"
			case "emailfmt":
				return "invalid email format"
			case "min":
				return "invalid request: " + field + " is too short"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
