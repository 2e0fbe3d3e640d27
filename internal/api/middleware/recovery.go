// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/ManuGH/lensd/internal/api/problem"
	"github.com/ManuGH/lensd/internal/log"
)

const stackBufSize = 8192

// PanicError carries a recovered panic value and the stack it was raised on.
// It does not unwrap to the panic value, so a panic always classifies as an
// unknown error even when the value carries an HTTP tag.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError captures the current goroutine stack.
func NewPanicError(v any) *PanicError {
	if pe, ok := v.(*PanicError); ok {
		return pe
	}
	buf := make([]byte, stackBufSize)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: v, Stack: buf[:n]}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Format prints the stack with %+v.
func (e *PanicError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		_, _ = fmt.Fprintf(s, "%s\n%s", e.Error(), e.Stack)
	case verb == 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = fmt.Fprint(s, e.Error())
	}
}

// Recoverer ensures that panics inside any downstream handler do not crash
// the process. It logs the panic and answers with a 500 problem.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			pe := NewPanicError(rec)

			pathLabel := r.URL.Path
			if !utf8.ValidString(pathLabel) {
				pathLabel = strings.ToValidUTF8(pathLabel, "")
			}

			logger := log.WithComponentFromContext(r.Context(), "panic-recovery")
			logger.Error().
				Str(log.FieldEvent, "panic.recovered").
				Str(log.FieldMethod, r.Method).
				Str(log.FieldPath, pathLabel).
				Str("remote_addr", r.RemoteAddr).
				Interface("panic_value", pe.Value).
				Str("stack_trace", string(pe.Stack)).
				Msg("panic recovered in HTTP handler")

			problem.Error(w, r, pe)
		}()

		next.ServeHTTP(w, r)
	})
}
