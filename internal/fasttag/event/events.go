// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"time"

	"github.com/google/uuid"
)

// CancelListenerFunc is the interface that provides a method to cancel
// a listener.
type CancelListenerFunc func()

// Call is the event that is sent for every request the client makes.
type Call struct {
	// At holds the time when the request was made.
	At time.Time

	// Duration is the time waited for the response.
	Duration time.Duration

	// UUID identifies the request so log lines can be correlated.
	UUID uuid.UUID

	// Method is the HTTP method of the request.
	Method string

	// Path is the request path, or the full URL for probe requests that
	// leave the service.
	Path string

	// StatusCode is the status code returned by the service.  Zero means
	// no response was received.
	StatusCode int

	// Body is the raw response body, when one was read.
	Body []byte

	// Err is the error returned to the caller, if any.
	Err error
}

// CallListener is the interface that must be implemented by types that
// want to receive Call notifications.
type CallListener interface {
	OnCall(Call)
}

// CallListenerFunc is a function type that implements CallListener.
// It can be used as an adapter for functions that need to implement the
// CallListener interface.
type CallListenerFunc func(Call)

func (f CallListenerFunc) OnCall(e Call) {
	f(e)
}
