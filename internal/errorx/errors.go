package errorx

import (
	"context"
	"errors"
	"net/http"

	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// CodeError is a typed error that carries an HTTP status code.
// Logic functions return these so the global error handler can map
// them to the correct HTTP response.
type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *CodeError) Error() string {
	return e.Msg
}

// ErrNotFound returns a 404 error.
func ErrNotFound(msg string) error {
	return &CodeError{Code: http.StatusNotFound, Msg: msg}
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(msg string) error {
	return &CodeError{Code: http.StatusBadRequest, Msg: msg}
}

// ErrGone returns a 410 error.
func ErrGone(msg string) error {
	return &CodeError{Code: http.StatusGone, Msg: msg}
}

// ErrInternal returns a 500 error.
func ErrInternal(msg string) error {
	return &CodeError{Code: http.StatusInternalServerError, Msg: msg}
}

// FromDomain maps sentinel errors of the session and snapshot packages to
// a CodeError. Other errors are returned unchanged.
func FromDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrSessionNotFound):
		return ErrNotFound("session not found")
	case errors.Is(err, snapshot.ErrNotFound):
		return ErrNotFound("snapshot not found")
	case errors.Is(err, session.ErrInvalidSlot):
		return ErrBadRequest(err.Error())
	case errors.Is(err, session.ErrClosed):
		return ErrGone("session closed")
	default:
		return err
	}
}

// RegisterErrorHandler installs a global error handler that maps CodeError
// to the correct HTTP status code. Untyped errors become 500.
func RegisterErrorHandler() {
	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, any) {
		var e *CodeError
		if errors.As(FromDomain(err), &e) {
			return e.Code, &CodeError{Code: e.Code, Msg: e.Msg}
		}

		logx.WithContext(ctx).Errorf("unexpected error: %v", err)
		return http.StatusInternalServerError, &CodeError{
			Code: http.StatusInternalServerError,
			Msg:  "internal server error",
		}
	})
}
