package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InvalidAggregationInputError reports a violated aggregation precondition.
type InvalidAggregationInputError struct {
	Reasons []string
	Cause   error
}

func (e *InvalidAggregationInputError) Error() string {
	return "invalid aggregation input: " + strings.Join(e.Reasons, "; ")
}

func (e *InvalidAggregationInputError) Unwrap() error { return e.Cause }

func newInvalidInputError(err error) *InvalidAggregationInputError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &InvalidAggregationInputError{Reasons: []string{err.Error()}, Cause: err}
	}

	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, describeFieldError(fe))
	}
	return &InvalidAggregationInputError{Reasons: reasons, Cause: err}
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "AggregationInput.")
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s needs at least %s entry", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s check", field, fe.Tag())
	}
}
