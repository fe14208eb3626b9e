// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package tokenfile

import "fmt"

func storageVador() Option {
	return optionFunc(
		func(s *Store) error {
			if s.fs == nil {
				return fmt.Errorf("%w: storage is missing", ErrInvalidInput)
			}
			return nil
		})
}

func fileNameVador() Option {
	return optionFunc(
		func(s *Store) error {
			if s.name == "" {
				return fmt.Errorf("%w: file name is missing", ErrInvalidInput)
			}
			return nil
		})
}
