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

// Begin is the event that is sent when an authentication session is
// requested from the service.
type Begin struct {
	// At holds the time when the request was made.
	At time.Time

	// Duration is the time waited for the response.
	Duration time.Duration

	// UUID identifies the request so log lines can be correlated.
	UUID uuid.UUID

	// Provider is the OAuth provider the session was requested for.
	Provider string

	// StatusCode is the status code returned by the service.
	StatusCode int

	// AuthURL is the URL the user must visit to authenticate.
	AuthURL string

	// Err is the error returned to the caller, if any.
	Err error
}

// BeginListener is the interface that must be implemented by types that
// want to receive Begin notifications.
type BeginListener interface {
	OnBegin(Begin)
}

// BeginListenerFunc is a function type that implements BeginListener.
// It can be used as an adapter for functions that need to implement the
// BeginListener interface.
type BeginListenerFunc func(Begin)

func (f BeginListenerFunc) OnBegin(e Begin) {
	f(e)
}

// Poll is the event that is sent for every poll attempt.
type Poll struct {
	// At holds the time when the poll request was made.
	At time.Time

	// Duration is the time waited for the response.
	Duration time.Duration

	// UUID identifies the request so log lines can be correlated.
	UUID uuid.UUID

	// Attempt is the 1 based poll attempt counter.
	Attempt int

	// StatusCode is the status code returned by the service.  Zero means
	// no response was received.
	StatusCode int

	// Status is the authentication status the service reported, when the
	// body could be decoded.
	Status string

	// Err holds what went wrong with this attempt.  A transient error
	// here does not end the wait; terminal errors are also returned to
	// the caller.
	Err error
}

// PollListener is the interface that must be implemented by types that
// want to receive Poll notifications.
type PollListener interface {
	OnPoll(Poll)
}

// PollListenerFunc is a function type that implements PollListener.
// It can be used as an adapter for functions that need to implement the
// PollListener interface.
type PollListenerFunc func(Poll)

func (f PollListenerFunc) OnPoll(e Poll) {
	f(e)
}
