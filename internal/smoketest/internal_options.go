// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package smoketest

import "fmt"

func clientVador() Option {
	return optionFunc(
		func(r *Runner) error {
			if r.client == nil {
				return fmt.Errorf("%w: client is missing", ErrInvalidInput)
			}
			return nil
		})
}
