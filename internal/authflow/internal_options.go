// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package authflow

import (
	"fmt"
	"net/url"

	"github.com/xmidt-org/retry"
)

func baseURLVador() Option {
	return optionFunc(
		func(f *Flow) error {
			if f.baseURL == "" {
				return fmt.Errorf("%w: base URL is missing", ErrInvalidInput)
			}

			u, err := url.Parse(f.baseURL)
			if err != nil {
				return fmt.Errorf("%w: base URL is invalid: %v", ErrInvalidInput, err)
			}

			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("%w: base URL scheme must be http or https", ErrInvalidInput)
			}

			return nil
		})
}

func providerVador() Option {
	return optionFunc(
		func(f *Flow) error {
			switch f.provider {
			case ProviderGoogle, ProviderGitHub:
				return nil
			}
			return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, f.provider)
		})
}

// defaultPolicy fills in the constant interval policy when no override was
// provided.  It must run after the user options so it sees the final poll
// interval.
func defaultPolicy() Option {
	return nilOptionFunc(
		func(f *Flow) {
			if f.policyFactory == nil {
				f.policyFactory = retry.Config{
					Interval: f.pollInterval,
				}
			}
		})
}
