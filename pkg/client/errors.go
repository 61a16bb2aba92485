package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// throttleCodes are the API error codes treated as retryable throttling
var throttleCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
	"SlowDown":                 true,
}

// normalizeError rewrites SDK client-side validation failures into the
// canonical missing-parameter form the resolution engine classifies. Other
// errors pass through untouched so their original text stays reportable.
func normalizeError(err error) error {
	var invalid smithy.InvalidParamsError
	if !errors.As(err, &invalid) {
		return err
	}

	for _, paramErr := range invalid.Errs() {
		var required *smithy.ParamRequiredError
		if errors.As(paramErr, &required) {
			// Field may carry the input struct context; keep the member only.
			field := required.Field()
			if i := strings.LastIndex(field, "."); i >= 0 {
				field = field[i+1:]
			}
			return fmt.Errorf("Missing required parameter in input: '%s'", field)
		}
	}
	return err
}

// isThrottle reports whether the error is a retryable rate limit
func isThrottle(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && throttleCodes[apiErr.ErrorCode()]
}
