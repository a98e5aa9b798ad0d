package apperrors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func ActionRestricted(msg string) error {
	return New(CodeActionRestricted, msg)
}

func ValidationFailure(msg string) error {
	return New(CodeValidationFailure, msg)
}

func RemoteOperation(msg string, cause error) error {
	return Wrap(CodeRemoteOperation, msg, cause)
}

func Moderation(msg string, cause error) error {
	return Wrap(CodeModeration, msg, cause)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func PermissionDenied(msg string) error {
	return New(CodePermissionDenied, msg)
}

// CodeOf 提取错误码，非 AppError 一律视为远端操作失败
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeRemoteOperation
}
