package execshell

import (
	"errors"
	"io"
	"os"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	closeFailureMessageConstant   = "unable to close shell resource"
	logFieldResourceConstant      = "resource"
	logFieldResourceIndexConstant = "resource_index"
)

// CloseAll closes every supplied resource, logging and combining individual failures.
//
// Nil closers and resources that report os.ErrClosed are ignored, so CloseAll
// may be applied to resources another path already released.
func CloseAll(logger *zap.Logger, closers ...io.Closer) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var combinedError error
	for closerIndex, closer := range closers {
		if isNilCloser(closer) {
			continue
		}

		closeError := closer.Close()
		if closeError == nil || errors.Is(closeError, os.ErrClosed) {
			continue
		}

		logger.Debug(
			closeFailureMessageConstant,
			zap.Int(logFieldResourceIndexConstant, closerIndex),
			zap.String(logFieldResourceConstant, reflect.TypeOf(closer).String()),
			zap.Error(closeError),
		)
		combinedError = multierr.Append(combinedError, closeError)
	}

	return combinedError
}

func isNilCloser(closer io.Closer) bool {
	if closer == nil {
		return true
	}
	value := reflect.ValueOf(closer)
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return value.IsNil()
	default:
		return false
	}
}
