// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package fasttag

import (
	"fmt"
	"net/url"
)

func baseURLVador() Option {
	return optionFunc(
		func(c *Client) error {
			if c.baseURL == "" {
				return fmt.Errorf("%w: base URL is missing", ErrInvalidInput)
			}

			u, err := url.Parse(c.baseURL)
			if err != nil {
				return fmt.Errorf("%w: base URL is invalid: %v", ErrInvalidInput, err)
			}

			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("%w: base URL scheme must be http or https", ErrInvalidInput)
			}

			return nil
		})
}
