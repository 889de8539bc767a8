package strategy

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeInvalidStrategy ErrorCode = "invalid_strategy"
	ErrorCodeInvalidRule     ErrorCode = "invalid_rule"
	ErrorCodeRulesReadFailed ErrorCode = "rules_read_failed"
	ErrorCodeRulesParseFail  ErrorCode = "rules_parse_failed"
)

// Error is a typed resolution error. An unknown strategy name is a
// programming error and always surfaces as ErrorCodeInvalidStrategy; it is
// never silently recovered.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsErrorCode(err error, code ErrorCode) bool {
	var strategyErr *Error
	if !errors.As(err, &strategyErr) {
		return false
	}
	return strategyErr.Code == code
}
