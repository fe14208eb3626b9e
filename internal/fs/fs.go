// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package fs

import "io/fs"

// FS is the filesystem surface the token store needs.  Implementations are
// expected to behave like the os package functions of the same names.
type FS interface {
	fs.FS

	// Mkdir creates a directory with the specified permissions.  Should match os.Mkdir().
	Mkdir(path string, perm fs.FileMode) error

	// ReadFile reads the file and returns the contents.  Should match os.ReadFile().
	ReadFile(name string) ([]byte, error)

	// WriteFile writes the file with the specified permissions.  Should match os.WriteFile().
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// Option is an interface for options that can be applied in order via the Operate function.
type Option interface {
	// Apply applies the option to the filesystem.
	Apply(FS) error
}

// OptionFunc is a function that implements the Option interface.
type OptionFunc func(FS) error

func (f OptionFunc) Apply(fs FS) error {
	return f(fs)
}

// Operate applies the specified options to the filesystem.  This allows for
// declaring a set of conditions that must be present (like creating a
// directory path) before the final operation is performed.
//
// Example:
//
//	Operate(fs,
//		WithPath("creds/.jwt_token", 0755),
//		WriteFile("creds/.jwt_token", contents, 0600))
func Operate(f FS, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.Apply(f); err != nil {
			return err
		}
	}
	return nil
}
