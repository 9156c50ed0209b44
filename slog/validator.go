package slog

import (
	"log/slog"

	"github.com/fwojciec/trialsum"
)

// Ensure LoggingValidator implements trialsum.Validator.
var _ trialsum.Validator = (*LoggingValidator)(nil)

// LoggingValidator wraps a Validator with debug logging of rejections.
type LoggingValidator struct {
	next   trialsum.Validator
	logger *slog.Logger
}

// NewLoggingValidator creates a new LoggingValidator.
func NewLoggingValidator(next trialsum.Validator, logger *slog.Logger) *LoggingValidator {
	return &LoggingValidator{next: next, logger: logger}
}

// Validate delegates to the wrapped validator. Accepted content is not
// logged.
func (v *LoggingValidator) Validate(content string) trialsum.Verdict {
	verdict := v.next.Validate(content)
	if !verdict.Accepted() {
		v.logger.Debug("content rejected",
			"reason", verdict.Reason,
			"detail", verdict.Detail,
			"bytes", len(content),
		)
	}
	return verdict
}
