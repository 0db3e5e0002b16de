package jsonrpc

import (
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

// Error is the JSON-RPC error object.
type Error = json2.Error

// Server error codes used for domain failures. They follow the HTTP status
// of the same meaning.
const (
	CodeNotFound        json2.ErrorCode = 404
	CodeUnprocessable   json2.ErrorCode = 422
	CodeTooManyRequests json2.ErrorCode = 429
	CodeInternalFailure json2.ErrorCode = 500
)

func NewError(code json2.ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func MethodNotFound(method string) *Error {
	return &Error{
		Code:    json2.E_NO_METHOD,
		Message: fmt.Sprintf("Method not found: %s", method),
	}
}

func InvalidParams(err error) *Error {
	return &Error{
		Code:    json2.E_BAD_PARAMS,
		Message: fmt.Sprintf("Invalid params: %v", err),
	}
}
