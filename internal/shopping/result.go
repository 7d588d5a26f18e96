package shopping

import (
	"fmt"
	"strings"

	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
)

// Result is what every adapter operation returns. Failures are values, never panics.
type Result[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    pkgerrors.Code `json:"code,omitempty"`
	Website Website        `json:"website"`
}

// Ok wraps data in a successful result.
func Ok[T any](website Website, data T) Result[T] {
	return Result[T]{Success: true, Data: data, Website: website}
}

// Fail builds a failed result from err. The message is redacted.
func Fail[T any](website Website, err error) Result[T] {
	if err == nil {
		err = pkgerrors.New(pkgerrors.CodeInternal, "unknown error")
	}
	msg := errorMessage(err)
	if msg == "" {
		msg = string(pkgerrors.CodeOf(err))
	}
	return Result[T]{
		Success: false,
		Error:   pkgerrors.Redact(msg),
		Code:    pkgerrors.CodeOf(err),
		Website: website,
	}
}

// NotImplemented is the fixed failure for operations a retailer does not expose.
func NotImplemented[T any](website Website, operation string) Result[T] {
	return Fail[T](website, pkgerrors.New(pkgerrors.CodeNotImplemented, fmt.Sprintf("%s is not implemented for %s", operation, website)))
}

// Err converts a failed result back into an error for callers that need one.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	code := r.Code
	if code == "" {
		code = pkgerrors.CodeInternal
	}
	return pkgerrors.New(code, r.Error)
}

// errorMessage joins the typed messages down the chain so upstream detail
// survives into the result without the code prefixes.
func errorMessage(err error) string {
	var parts []string
	for err != nil {
		typed, ok := err.(*pkgerrors.Error)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		if msg := typed.Message(); msg != "" {
			parts = append(parts, msg)
		}
		err = typed.Unwrap()
	}
	return strings.Join(parts, ": ")
}
