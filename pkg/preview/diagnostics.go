package preview

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// PanicError is a recovered panic turned into an error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// guard runs fn, converting a panic into a *PanicError.
func guard[T any](fn func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// Traceback renders the cause chain of err, outermost first, as "type: message" lines.
// Recovered panics also include their goroutine stack.
func Traceback(err error) string {
	var b strings.Builder
	writeCause(&b, err, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeCause(b *strings.Builder, err error, depth int) {
	if err == nil {
		return
	}
	fmt.Fprintf(b, "%s%T: %v\n", strings.Repeat("  ", depth), err, err)

	var panicErr *PanicError
	if depth == 0 && errors.As(err, &panicErr) {
		b.Write(panicErr.Stack)
		b.WriteByte('\n')
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			writeCause(b, inner, depth+1)
		}
	case interface{ Unwrap() error }:
		writeCause(b, u.Unwrap(), depth+1)
	}
}
