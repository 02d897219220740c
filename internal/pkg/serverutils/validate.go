package serverutils

import (
	"fmt"
	"strings"

	"ai-qa-agent-be/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a request DTO and converts failures
// into a client-facing validation error listing the offending fields.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("invalid request body")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperr.Validation("invalid request: " + strings.Join(fields, ", "))
}
