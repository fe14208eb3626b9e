// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/goschtalt/goschtalt"
	_ "github.com/goschtalt/properties-decoder"
	_ "github.com/goschtalt/yaml-decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapping struct {
	in    string
	out   string
	found bool
}

func TestExternal_resolve(t *testing.T) {
	unknownErr := errors.New("unknown error")

	testFs := fstest.MapFS{
		"deploy.properties": &fstest.MapFile{
			Data: []byte(`
fasttag.service.url=https://api.fasttag.example.com
fasttag.token.dir=/var/lib/fasttag
fasttag.token.name=.jwt_token
`,
			),
			Mode: 0755,
		},
	}

	tests := []struct {
		description string
		in          External
		tests       []mapping
		expectedErr error
	}{
		{
			description: "empty external",
			tests: []mapping{
				{
					in:    "service_url",
					out:   "",
					found: false,
				},
			},
		}, {
			description: "a deployment file exposing a few values",
			in: External{
				Required: true,
				File:     "deploy.properties",
				As:       "properties",
				Remap: []Remap{
					{
						From: "fasttag.service.url",
						To:   "service_url",
					}, {
						From: "fasttag.token.dir",
						To:   "token_dir",
					}, {
						From: "fasttag.token.name",
						To:   "token_name",
					}, {
						From:     "fasttag.not.there",
						To:       "missing",
						Optional: true,
					},
				},
				root: testFs,
			},
			tests: []mapping{
				{
					in:    "unrelated",
					out:   "",
					found: false,
				}, {
					in:    "service_url",
					out:   "https://api.fasttag.example.com",
					found: true,
				}, {
					in:    "token_dir",
					out:   "/var/lib/fasttag",
					found: true,
				}, {
					in:    "token_name",
					out:   ".jwt_token",
					found: true,
				}, {
					in:    "missing",
					found: false,
				},
			},
		}, {
			description: "required file that is not there",
			in: External{
				Required: true,
				File:     "no-such.file",
				root:     testFs,
			},
			expectedErr: unknownErr,
		}, {
			description: "required key that is not there",
			expectedErr: unknownErr,
			in: External{
				Required: true,
				File:     "deploy.properties",
				As:       "properties",
				Remap: []Remap{
					{
						From: "fasttag.not.there",
						To:   "service_url",
					},
				},
				root: testFs,
			},
		}, {
			description: "invalid remap entries",
			in: External{
				Required: true,
				File:     "deploy.properties",
				As:       "properties",
				Remap: []Remap{
					{
						From:     "", // missing, but optional
						To:       "service_url",
						Optional: true,
					}, {
						From: "", // missing and not optional
						To:   "token_dir",
					}, {
						From: "fasttag.service.url",
						To:   "service_url",
					},
				},
				root: testFs,
			},
			expectedErr: ErrInvalidExternal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			got, err := tc.in.resolve()

			if tc.expectedErr != nil {
				assert.Error(err)
				if !errors.Is(tc.expectedErr, unknownErr) {
					assert.ErrorIs(err, tc.expectedErr)
				}
				return
			}

			assert.NoError(err)
			assert.NotNil(got)

			for _, test := range tc.tests {
				out, found := got(test.in)
				assert.Equal(test.found, found)
				assert.Equal(test.out, out)
			}
		})
	}
}

func TestExternal_apply(t *testing.T) {
	unknownErr := errors.New("unknown error")

	testFs := fstest.MapFS{
		"cfg.yaml": &fstest.MapFile{
			Data: []byte(`
---
  service:
    url: ${service_url}
  externals:
    - file: deploy.properties
      as: properties
      remap:
        - from: fasttag.service.url
          to: service_url
        - from: fasttag.token.dir
          to: token_dir
  invalid:
    - file: deploy.properties
      as: properties
      remap:
        - from: fasttag.service.url # missing the to
`,
			),
			Mode: 0755,
		},
		"deploy.properties": &fstest.MapFile{
			Data: []byte(`
fasttag.service.url=https://api.fasttag.example.com
fasttag.token.dir=/var/lib/fasttag
`,
			),
			Mode: 0755,
		},
	}

	tests := []struct {
		description string
		name        string
		fs          fs.FS
		expectedErr error
		required    bool
	}{
		{
			description: "a missing external list, but not required",
			name:        "missing",
			fs:          testFs,
		}, {
			description: "externals are present",
			name:        "externals",
			fs:          testFs,
		}, {
			description: "a missing external list, but required",
			name:        "missing",
			fs:          testFs,
			required:    true,
			expectedErr: unknownErr,
		}, {
			description: "a broken remap",
			name:        "invalid",
			fs:          testFs,
			required:    true,
			expectedErr: ErrInvalidExternal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			gs, err := goschtalt.New(
				goschtalt.AddFiles(tc.fs, "."),
				goschtalt.ConfigIs("two_words"),
				goschtalt.AutoCompile(true),
			)
			require.NoError(err)
			require.NotNil(gs)

			got := apply(gs, tc.name, tc.required, tc.fs)

			if tc.expectedErr != nil {
				assert.Error(got)
				if !errors.Is(tc.expectedErr, unknownErr) {
					assert.ErrorIs(got, tc.expectedErr)
				}
				return
			}

			assert.NoError(got)
		})
	}
}
