// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package httperr tags request errors with the class the serving layer
// assigns them, so observers can bucket failures without inspecting types.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class is the fault class of a request error.
type Class int

const (
	ClassUnknown Class = iota
	ClassClient
	ClassServer
)

func (c Class) String() string {
	switch c {
	case ClassClient:
		return "client"
	case ClassServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a request error tagged with an HTTP status and a stable code.
type Error struct {
	Status int    // HTTP status returned to the client
	Code   string // stable machine-readable code, e.g. NOT_FOUND
	Detail string // human-readable explanation
	Err    error  // optional wrapped cause
}

// New builds a tagged error. An empty code is derived from the status text.
func New(status int, code, detail string) *Error {
	if code == "" {
		code = codeFromStatus(status)
	}
	return &Error{Status: status, Code: code, Detail: detail}
}

// Wrap builds a tagged error around cause.
func Wrap(status int, code string, cause error) *Error {
	e := New(status, code, "")
	e.Err = cause
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Detail)
	default:
		return fmt.Sprintf("%d %s", e.Status, e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Class derives the fault class from the status: 4xx is client, 5xx server.
func (e *Error) Class() Class {
	switch {
	case e.Status >= 400 && e.Status < 500:
		return ClassClient
	case e.Status >= 500 && e.Status < 600:
		return ClassServer
	default:
		return ClassUnknown
	}
}

// Title returns the standard status text.
func (e *Error) Title() string {
	if t := http.StatusText(e.Status); t != "" {
		return t
	}
	return "Error"
}

// Classify returns the class tagged on err, or ClassUnknown when err carries
// no tag.
func Classify(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class()
	}
	return ClassUnknown
}

// StatusOf returns the HTTP status for err; untagged errors map to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func BadRequest(detail string) *Error { return New(http.StatusBadRequest, "BAD_REQUEST", detail) }
func Forbidden(detail string) *Error  { return New(http.StatusForbidden, "FORBIDDEN", detail) }
func NotFound(detail string) *Error   { return New(http.StatusNotFound, "NOT_FOUND", detail) }
func Conflict(detail string) *Error   { return New(http.StatusConflict, "CONFLICT", detail) }

func TooManyRequests(detail string) *Error {
	return New(http.StatusTooManyRequests, "RATE_LIMITED", detail)
}

func Internal(cause error) *Error {
	return Wrap(http.StatusInternalServerError, "INTERNAL", cause)
}

func Unavailable(detail string) *Error {
	return New(http.StatusServiceUnavailable, "UNAVAILABLE", detail)
}
