// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// Package configuration lets the fast-tag tools pull selected values out of
// external files they do not own.  A deployment usually has one file that
// says where the service lives; both token-retriever and smoke-tester can
// point at it through an `externals` list instead of copying the URL into
// each tool's configuration.
package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goschtalt/goschtalt"
	"github.com/goschtalt/goschtalt/pkg/meta"
)

var (
	ErrInvalidExternal = errors.New("invalid external configuration")
)

// External names one file to pull values from and which keys to expose.
// The exposed keys become expansion variables, so a configuration value
// like `${service_url}` resolves to whatever the external file holds.
type External struct {
	// Required makes a missing file an error instead of a no-op.
	Required bool

	// File is the path of the external file, relative to the filesystem
	// root.
	File string

	// As overrides the decoder used for the file.  When empty the file
	// extension picks the decoder, like normal.
	As string

	// Origin labels where values pulled from this file came from, for the
	// configuration explain output.  Defaults to the file path.
	Origin string

	// Remap lists which external keys are exposed and under which variable
	// names.
	Remap []Remap

	// root overrides where File is resolved from.  Tests use this; a nil
	// root means the real filesystem starting at '/'.
	root fs.FS
}

// Remap exposes one key from the external file as an expansion variable.
type Remap struct {
	// From is the key in the external file.
	From string

	// To is the variable name the value is exposed as.
	To string

	// Optional allows the key to be absent from the external file.  A
	// missing non-optional key is an error.
	Optional bool
}

// resolve reads the external file and produces the expander that serves its
// remapped values.
func (ext External) resolve() (goschtalt.ExpanderFunc, error) {
	root := ext.root
	if root == nil {
		root = os.DirFS("/")
	}

	// fs.FS paths never start with a slash.
	file := strings.TrimPrefix(ext.File, "/")
	opt := goschtalt.AddFilesAs(root, ext.As, file)
	if ext.Required {
		opt = goschtalt.AddFileAs(root, ext.As, file)
	}

	gs, err := goschtalt.New(opt, goschtalt.AutoCompile(true))
	if err != nil {
		return nil, err
	}

	vars := make(map[string]string, len(ext.Remap))
	for _, item := range ext.Remap {
		var val string

		if item.From == "" || item.To == "" {
			if item.Optional {
				continue
			}
			return nil, fmt.Errorf("%w: remap needs both from and to", ErrInvalidExternal)
		}

		err = gs.Unmarshal(item.From, &val)
		if err != nil {
			if item.Optional && errors.Is(err, meta.ErrNotFound) {
				continue
			}
			return nil, err
		}

		vars[item.To] = val
	}

	return goschtalt.ExpanderFunc(
		func(s string) (string, bool) {
			if val, ok := vars[s]; ok {
				return val, true
			}
			return "", false
		}), nil
}

// Apply reads the list of External entries stored under name in the
// configuration and makes their values available as expansion variables.
// With required set, the list itself must be present.
func Apply(gs *goschtalt.Config, name string, required bool, opts ...goschtalt.ExpandOption) error {
	return apply(gs, name, required, nil, opts...)
}

func apply(gs *goschtalt.Config, name string, required bool, fs fs.FS, opts ...goschtalt.ExpandOption) error {
	optional := goschtalt.Optional()
	if required {
		optional = goschtalt.Required()
	}

	externals, err := goschtalt.Unmarshal[[]External](gs, name, optional)
	if err != nil {
		return err
	}

	additional := make([]goschtalt.Option, 0, len(externals))
	for _, external := range externals {
		external.root = fs
		fn, err := external.resolve()
		if err != nil {
			return err
		}

		origin := external.Origin
		if external.Origin == "" {
			origin = external.File
		}

		opts = append(opts, goschtalt.WithOrigin(origin))
		exp := goschtalt.Expand(fn, opts...)
		additional = append(additional, exp)
	}

	return gs.With(additional...)
}
