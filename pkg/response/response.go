package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST   ErrCode = "REQUEST_FAILED"
	BAD_REQUEST      ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND        ErrCode = "NOT_FOUND"
	LOCKED           ErrCode = "LOCKED"
	POLICY_VIOLATION ErrCode = "POLICY_VIOLATION"
	TRANSIENT        ErrCode = "TRANSIENT_FAILURE"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("resource not found")
	ErrLocked          = errors.New("resource is locked")
	ErrPolicyViolation = errors.New("policy violation")
	ErrTransient       = errors.New("transient store failure")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}

// PolicyError wraps ErrPolicyViolation with a human-readable reason, so
// handlers can match the sentinel and still surface the detail.
func PolicyError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrPolicyViolation)
}

// Reason strips the sentinel suffix appended by PolicyError and the
// "op:" prefixes accumulated while wrapping, leaving the message meant
// for the client.
func Reason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "+ErrPolicyViolation.Error()); i >= 0 {
		msg = msg[:i]
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}

	return msg
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsg []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is required", err.Field()))
		case "min":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is below the allowed minimum %s", err.Field(), err.Param()))
		case "max":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is above the allowed maximum %s", err.Field(), err.Param()))
		case "oneof":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param()))
		default:
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is invalid", err.Field()))
		}
	}

	return Error(string(BAD_REQUEST), strings.Join(errMsg, ", "))
}
