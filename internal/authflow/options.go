// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package authflow

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/authflow/event"
	"github.com/xmidt-org/retry"
)

type optionFunc func(*Flow) error

var _ Option = optionFunc(nil)

func (f optionFunc) apply(fl *Flow) error {
	return f(fl)
}

type nilOptionFunc func(*Flow)

var _ Option = nilOptionFunc(nil)

func (f nilOptionFunc) apply(fl *Flow) error {
	f(fl)
	return nil
}

// BaseURL is the root URL of the fast-tag service, without a trailing
// slash.  Required.
func BaseURL(baseURL string) Option {
	return nilOptionFunc(
		func(f *Flow) {
			f.baseURL = strings.TrimRight(baseURL, "/")
		})
}

// Provider selects the OAuth provider.  Case is ignored and an empty value
// selects the default.
func Provider(provider string) Option {
	return nilOptionFunc(
		func(f *Flow) {
			if provider == "" {
				provider = DefaultProvider
			}
			f.provider = strings.ToLower(provider)
		})
}

// HTTPClient is the HTTP client used for the session and poll requests.
func HTTPClient(client *http.Client) Option {
	return nilOptionFunc(
		func(f *Flow) {
			if client == nil {
				client = http.DefaultClient
			}
			f.client = client
		})
}

// PollInterval is the pause between poll attempts.  If zero the default of
// 2s is used.  Negative values are rejected.
func PollInterval(interval time.Duration) Option {
	return optionFunc(
		func(f *Flow) error {
			if interval < 0 {
				return fmt.Errorf("%w: poll interval must not be negative", ErrInvalidInput)
			}

			f.pollInterval = interval

			if f.pollInterval == 0 {
				f.pollInterval = DefaultPollInterval
			}
			return nil
		})
}

// MaxWait is the wall clock budget for the whole wait.  If zero the default
// of 5m is used.  Negative values are rejected.
func MaxWait(maxWait time.Duration) Option {
	return optionFunc(
		func(f *Flow) error {
			if maxWait < 0 {
				return fmt.Errorf("%w: max wait must not be negative", ErrInvalidInput)
			}

			f.maxWait = maxWait

			if f.maxWait == 0 {
				f.maxWait = DefaultMaxWait
			}
			return nil
		})
}

// RetryPolicy overrides how the pauses between poll attempts are produced.
// Without this option a constant interval policy built from PollInterval
// is used.
func RetryPolicy(pf retry.PolicyFactory) Option {
	return nilOptionFunc(
		func(f *Flow) {
			f.policyFactory = pf
		})
}

// NowFunc is the function used to obtain the current time.
func NowFunc(nowFunc func() time.Time) Option {
	return nilOptionFunc(
		func(f *Flow) {
			if nowFunc == nil {
				nowFunc = time.Now
			}
			f.nowFunc = nowFunc
		})
}

// AddBeginListener adds a listener for session begin events.  If the
// optional cancel parameter is provided, it is set to a function that can
// be used to cancel the listener.
func AddBeginListener(listener event.BeginListener, cancel ...*event.CancelListenerFunc) Option {
	return nilOptionFunc(
		func(f *Flow) {
			cncl := f.beginListeners.Add(listener)
			if len(cancel) > 0 && cancel[0] != nil {
				*cancel[0] = event.CancelListenerFunc(cncl)
			}
		})
}

// AddPollListener adds a listener for poll events.  If the optional cancel
// parameter is provided, it is set to a function that can be used to cancel
// the listener.
func AddPollListener(listener event.PollListener, cancel ...*event.CancelListenerFunc) Option {
	return nilOptionFunc(
		func(f *Flow) {
			cncl := f.pollListeners.Add(listener)
			if len(cancel) > 0 && cancel[0] != nil {
				*cancel[0] = event.CancelListenerFunc(cncl)
			}
		})
}
