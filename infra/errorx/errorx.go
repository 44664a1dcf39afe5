// Package errorx carries coded errors shared by every toolbox package.
package errorx

import (
	"errors"
	"fmt"

	"github.com/hyp3rd/ewrap"

	"toolbox/infra/errorx/errCode"
)

// Error 带错误码的错误
type Error struct {
	Code errCode.ErrCode
	Msg  string
}

func New(code errCode.ErrCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code errCode.ErrCode, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// Is matches any *Error with the same code, so sentinels declared with
// New(code, ...) act as code classes under errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Code 提取错误码，非 errorx 错误返回 OK
func Code(err error) errCode.ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return errCode.OK
}

// Wrap 附加上下文，保留错误链
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return ewrap.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return ewrap.Wrapf(err, format, args...)
}
