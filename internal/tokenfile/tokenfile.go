// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// Package tokenfile persists the fast-tag JWT as a single dotenv style file
// so shell scripts can source it and other tools can parse it.
package tokenfile

import (
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/fasttag-org/fasttag-cli/internal/fs"
	"github.com/joho/godotenv"
)

var (
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrNotFound     = fmt.Errorf("token file not found")
	ErrMalformed    = fmt.Errorf("token file malformed")
)

const (
	// Key is the dotenv key the token is stored under.
	Key = "JWT_TOKEN"

	DefaultFileName    = ".jwt_token"
	DefaultPermissions = iofs.FileMode(0600)
)

// Store reads and writes the token file on the configured filesystem.
//
// The file format is one dotenv assignment:
//
//	JWT_TOKEN="<token>"
//
// Loading also accepts the `export JWT_TOKEN=...` spelling and single
// quoted values, since the file is commonly edited by hand.
type Store struct {
	fs   fs.FS
	name string
	perm iofs.FileMode
}

// Option is the interface implemented by types that can be used to
// configure the store.
type Option interface {
	apply(*Store) error
}

// New creates a new token file store.
func New(opts ...Option) (*Store, error) {
	required := []Option{
		storageVador(),
		fileNameVador(),
	}

	s := Store{
		name: DefaultFileName,
		perm: DefaultPermissions,
	}

	opts = append(opts, required...)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt.apply(&s)
		if err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// Name returns the file name the store reads and writes.
func (s *Store) Name() string {
	return s.name
}

// Save writes the token to the file, creating any missing directories in
// the path.  The resulting file contains exactly one line.
func (s *Store) Save(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidInput)
	}

	line := fmt.Sprintf("%s=%q\n", Key, token)

	return fs.Operate(s.fs,
		fs.WithPath(s.name, 0755),
		fs.WriteFile(s.name, []byte(line), s.perm))
}

// Load reads the token back out of the file.
//
// A missing file maps to ErrNotFound.  A file without a usable JWT_TOKEN
// entry maps to ErrMalformed.
func (s *Store) Load() (string, error) {
	data, err := s.fs.ReadFile(s.name)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return "", fmt.Errorf("%w: '%s'", ErrNotFound, s.name)
		}
		return "", err
	}

	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return "", errors.Join(err, ErrMalformed)
	}

	token, found := env[Key]
	if !found || token == "" {
		return "", fmt.Errorf("%w: no %s entry in '%s'", ErrMalformed, Key, s.name)
	}

	return token, nil
}
