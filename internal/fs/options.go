// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDirectory is returned when a directory is expected but a file is found.
	ErrNotDirectory = errors.New("not a directory")
)

// Options provides a way to group multiple options together.
func Options(opts ...Option) Option {
	return OptionFunc(
		func(f FS) error {
			return Operate(f, opts...)
		})
}

// WithDir is an option that ensures the specified directory exists.  If it
// does not, create it with the specified permissions.
func WithDir(dir string, perm fs.FileMode) Option {
	return OptionFunc(
		func(f FS) error {
			file, err := f.Open(dir)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				return f.Mkdir(dir, perm)
			}
			defer file.Close()

			stat, err := file.Stat()
			if err == nil {
				if !stat.IsDir() {
					return ErrNotDirectory
				}
			}

			return err
		})
}

// WithDirs is an option that ensures the specified directory path exists with
// the specified permissions.  The path is split on the path separator and
// each directory is created in order if needed.
//
// Notes:
//   - The path should not contain the filename or that will be created as a directory.
//   - The same permissions are applied to all directories that are created.
func WithDirs(path string, perm fs.FileMode) Option {
	dirs := strings.Split(path, string(filepath.Separator))
	if filepath.IsAbs(path) {
		dirs[0] = string(filepath.Separator)
	}

	var full string
	opts := make([]Option, 0, len(dirs))
	for _, dir := range dirs {
		full = filepath.Join(full, dir)
		opts = append(opts, WithDir(full, perm))
	}
	return Options(opts...)
}

// WithPath is an option that ensures the set of directories for the specified
// file exists.  The directory is determined by calling filepath.Dir on the name.
//
// Notes:
//   - The name should contain the filename and any path to ensure is present.
//   - The same permissions are applied to all directories that are created.
func WithPath(name string, perm fs.FileMode) Option {
	return WithDirs(filepath.Dir(name), perm)
}

// WriteFile is an option form of FS.WriteFile so a write can be sequenced
// after the options that ensure its directory path exists.
func WriteFile(name string, data []byte, perm fs.FileMode) Option {
	return OptionFunc(
		func(f FS) error {
			return f.WriteFile(name, data, perm)
		})
}

// ReadFile is an option form of FS.ReadFile.  The contents are returned via
// the data pointer so the read can participate in an Operate sequence.
func ReadFile(name string, data *[]byte) Option {
	return OptionFunc(
		func(f FS) error {
			contents, err := f.ReadFile(name)
			if err != nil {
				return err
			}

			*data = contents

			return nil
		})
}
