// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package tokenfile

import (
	iofs "io/fs"

	"github.com/fasttag-org/fasttag-cli/internal/fs"
)

type optionFunc func(*Store) error

var _ Option = optionFunc(nil)

func (f optionFunc) apply(s *Store) error {
	return f(s)
}

type nilOptionFunc func(*Store)

var _ Option = nilOptionFunc(nil)

func (f nilOptionFunc) apply(s *Store) error {
	f(s)
	return nil
}

// Storage is the filesystem the token file lives on.
func Storage(fs fs.FS) Option {
	return nilOptionFunc(
		func(s *Store) {
			s.fs = fs
		})
}

// FileName is the name of the token file, relative to the storage
// filesystem.  If empty the default is used.
func FileName(name string) Option {
	return nilOptionFunc(
		func(s *Store) {
			if name == "" {
				name = DefaultFileName
			}
			s.name = name
		})
}

// FilePermissions is the mode the token file is written with.  If zero the
// default of 0600 is used.
func FilePermissions(perm iofs.FileMode) Option {
	return nilOptionFunc(
		func(s *Store) {
			if perm == 0 {
				perm = DefaultPermissions
			}
			s.perm = perm
		})
}
