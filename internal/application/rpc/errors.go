package rpc

import (
	"errors"
	"fmt"

	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadParams
	KindNotFound
	KindUnprocessable
)

// Error carries a failure out of a method body together with how it should
// be reported to the caller.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badParams(format string, args ...any) error {
	return &Error{Kind: KindBadParams, Err: fmt.Errorf(format, args...)}
}

func classify(err error) ErrorKind {
	var rpcErr *Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr.Kind
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrBadRequest):
		return KindUnprocessable
	}
	return KindInternal
}

// toJSONRPC converts err into the error object sent back to the caller.
// Internal failures are reported without their cause.
func toJSONRPC(err error) *jsonrpc.Error {
	switch classify(err) {
	case KindBadParams:
		return jsonrpc.InvalidParams(err)
	case KindNotFound:
		return jsonrpc.NewError(jsonrpc.CodeNotFound, err.Error())
	case KindUnprocessable:
		return jsonrpc.NewError(jsonrpc.CodeUnprocessable, err.Error())
	}
	return jsonrpc.NewError(jsonrpc.CodeInternalFailure, "internal server error")
}
