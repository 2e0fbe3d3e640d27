// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldHandle        = "query_handle"
	FieldSession       = "session_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Metric fields
	FieldScope  = "scope"
	FieldMetric = "metric"

	// Error fields
	FieldErrorType   = "error_type"
	FieldErrorClass  = "error_class"
	FieldErrorDetail = "error_detail"

	// HTTP fields
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
)
