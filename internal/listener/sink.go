// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package listener

import (
	"fmt"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/lensd/internal/log"
)

// LogSink writes unclassified errors as error-level log entries, including
// the %+v rendering of the error so stack-carrying errors keep their trace.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(n Notification) {
	s.logger.Error().
		Err(n.Err).
		Str(xglog.FieldEvent, "listener.unknown_error").
		Str(xglog.FieldErrorType, fmt.Sprintf("%T", n.Err)).
		Str(xglog.FieldErrorDetail, fmt.Sprintf("%+v", n.Err)).
		Str(xglog.FieldMethod, n.Method).
		Str(xglog.FieldPath, n.Path).
		Str(xglog.FieldRequestID, n.RequestID).
		Msg("unclassified request error")
}

// SinkFunc adapts a function to DiagnosticSink.
type SinkFunc func(n Notification)

func (f SinkFunc) Report(n Notification) { f(n) }
