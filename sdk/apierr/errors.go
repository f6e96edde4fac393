// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package apierr holds the error taxonomy returned by the device SDK.
//
// Every failure surfaced by a service is an *Error whose Kind is one of the
// sentinel values below, so callers can branch with errors.Is:
//
//	if errors.Is(err, apierr.ErrTimeout) { ... }
//
// The underlying cause (net error, os.PathError, context error) stays
// reachable through errors.Is / errors.As as well.
package apierr

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired      = errors.New("access token is required")
	ErrAuth              = errors.New("authentication failed")
	ErrTimeout           = errors.New("request timed out")
	ErrTransport         = errors.New("transport failure")
	ErrAPINotFound       = errors.New("no /v2/ control interface at this address")
	ErrLocalFile         = errors.New("local file error")
	ErrNotFound          = errors.New("not found")
	ErrConfig            = errors.New("unsupported input")
	ErrMalformedResponse = errors.New("malformed device response")
	ErrDevice            = errors.New("device reported an error")
)

// DeviceError is the cause behind ErrDevice: the status and body the player
// answered with. Reach it with errors.As.
type DeviceError struct {
	StatusCode int
	Body       []byte
}

func (e *DeviceError) Error() string {
	const max = 120
	body := e.Body
	if len(body) > max {
		body = append(body[:max:max], "..."...)
	}
	if len(body) == 0 {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, body)
}

type Error struct {
	Kind error
	Op   string // device path or operation name
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func New(kind error, op, format string, a ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, a...)}
}

func Wrap(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the taxonomy kind of err, or nil when err does not belong
// to the taxonomy.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
