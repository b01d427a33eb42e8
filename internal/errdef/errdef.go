package errdef

import (
	"errors"
	"fmt"
)

// Code classifies an error for presentation and routing decisions.
type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeFilesystem Code = "filesystem"
	CodeStorage    Code = "storage"
	CodeSettings   Code = "settings"
	CodeParse      Code = "parse"
	CodeLaunch     Code = "launch"
)

type codedError struct {
	code Code
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

func (e *codedError) Unwrap() error { return e.err }

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...interface{}) error {
	return &codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and context message. Returns nil if err is nil.
func Wrap(code Code, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, msg: fmt.Sprintf(format, args...), err: err}
}

// CodeOf returns the code of the outermost coded error in err's chain.
func CodeOf(err error) Code {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeUnknown
}

// Message returns a user-facing message for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
