// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package smoketest

import (
	"fmt"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/fasttag"
	"github.com/fasttag-org/fasttag-cli/internal/smoketest/event"
)

type optionFunc func(*Runner) error

func (f optionFunc) apply(r *Runner) error {
	return f(r)
}

type nilOptionFunc func(*Runner)

func (f nilOptionFunc) apply(r *Runner) error {
	f(r)
	return nil
}

// Client sets the fast-tag client the runner calls.  This option is
// required.
func Client(client *fasttag.Client) Option {
	return nilOptionFunc(
		func(r *Runner) {
			r.client = client
		})
}

// PresignKey sets the object key the presign step asks about.  The key
// does not need to exist.  An empty string means use the default.
func PresignKey(key string) Option {
	return nilOptionFunc(
		func(r *Runner) {
			if key == "" {
				key = DefaultPresignKey
			}
			r.presignKey = key
		})
}

// PresignExpiry sets the lifetime requested for the presigned URL.  A
// value of zero means use the default.
func PresignExpiry(expiry time.Duration) Option {
	return optionFunc(
		func(r *Runner) error {
			if expiry < 0 {
				return fmt.Errorf("%w: negative presign expiry", ErrInvalidInput)
			}
			if expiry == 0 {
				expiry = DefaultPresignExpiry
			}
			r.presignExpiry = expiry
			return nil
		})
}

// MaxProbes caps how many task resources the probe step fetches.  A
// value of zero means use the default.
func MaxProbes(max int) Option {
	return optionFunc(
		func(r *Runner) error {
			if max < 0 {
				return fmt.Errorf("%w: negative probe count", ErrInvalidInput)
			}
			if max == 0 {
				max = DefaultMaxProbes
			}
			r.maxProbes = max
			return nil
		})
}

// StoragePrefix limits the storage listing step to keys under the
// prefix.  An empty string lists everything.
func StoragePrefix(prefix string) Option {
	return nilOptionFunc(
		func(r *Runner) {
			r.storagePrefix = prefix
		})
}

// AddStepListener adds a listener for step start events.  If the
// optional cancel parameter is provided, it is set to a function that
// can be used to cancel the listener.
func AddStepListener(listener event.StepListener, cancel ...*event.CancelListenerFunc) Option {
	return nilOptionFunc(
		func(r *Runner) {
			var ignored event.CancelListenerFunc

			cncl := &ignored
			if len(cancel) > 0 && cancel[0] != nil {
				cncl = cancel[0]
			}

			*cncl = event.CancelListenerFunc(r.stepListeners.Add(listener))
		})
}

// AddOutcomeListener adds a listener for step outcome events.  If the
// optional cancel parameter is provided, it is set to a function that
// can be used to cancel the listener.
func AddOutcomeListener(listener event.OutcomeListener, cancel ...*event.CancelListenerFunc) Option {
	return nilOptionFunc(
		func(r *Runner) {
			var ignored event.CancelListenerFunc

			cncl := &ignored
			if len(cancel) > 0 && cancel[0] != nil {
				cncl = cancel[0]
			}

			*cncl = event.CancelListenerFunc(r.outcomeListeners.Add(listener))
		})
}
