// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goschtalt/goschtalt"
	_ "github.com/goschtalt/goschtalt/pkg/typical"
	_ "github.com/goschtalt/properties-decoder"
	_ "github.com/goschtalt/yaml-decoder"
	_ "github.com/goschtalt/yaml-encoder"
	"github.com/xmidt-org/arrange/arrangehttp"
	"github.com/xmidt-org/sallust"
	"gopkg.in/dealancer/validate.v2"

	"github.com/fasttag-org/fasttag-cli/internal/configuration"
)

//go:embed default-config.yaml
var defaultConfigFile []byte

// Config is the configuration for smoke-tester.
type Config struct {
	Service   Service
	TokenFile TokenFile
	Smoke     Smoke
	Logger    sallust.Config
	Externals []configuration.External
}

// Service points the tool at a fast-tag deployment.
type Service struct {
	// URL is the base URL of the fast-tag service.
	URL string `validate:"empty=false"`

	// HTTPClient is the configuration for the HTTP client used for every
	// call against the service.
	HTTPClient arrangehttp.ClientConfig
}

// TokenFile says where the JWT written by token-retriever is found.
type TokenFile struct {
	// Directory is the directory holding the token file.
	Directory string `validate:"empty=false"`

	// Name is the name of the token file.
	Name string `validate:"empty=false"`

	// Permissions is the file mode of the token file.
	Permissions fs.FileMode
}

// Smoke tunes the smoke test sequence.
type Smoke struct {
	// PresignKey is the object key the presign step asks about.  The key
	// does not need to exist.
	PresignKey string

	// PresignExpiry is the lifetime requested for the presigned URL.
	PresignExpiry time.Duration

	// MaxProbes caps how many task resources are fetched.
	MaxProbes int

	// ProbeTimeout bounds each task resource fetch.
	ProbeTimeout time.Duration

	// StoragePrefix limits the storage listing to keys under the prefix.
	StoragePrefix string
}

// Collect and process the configuration files and env vars and
// produce a configuration object.
func provideConfig(cli *CLI) (*goschtalt.Config, error) {
	gs, err := goschtalt.New(
		goschtalt.StdCfgLayout(applicationName, cli.Files...),
		goschtalt.ConfigIs("two_words"),
		goschtalt.DefaultUnmarshalOptions(
			goschtalt.WithValidator(
				goschtalt.ValidatorFunc(validate.Validate),
			),
		),

		// Seed the program with the default, built-in configuration
		goschtalt.AddBuffer("!built-in.yaml", defaultConfigFile, goschtalt.AsDefault()),
	)
	if err != nil {
		return nil, err
	}

	// Externals are individually processed external files, handled after the
	// initial configuration has been calculated because the list of them
	// lives in the configuration.
	if err = configuration.Apply(gs, "externals", false); err != nil {
		return nil, err
	}

	var tmp Config
	err = gs.Unmarshal(goschtalt.Root, &tmp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "There is a critical error in the configuration.")
		fmt.Fprintln(os.Stderr, "Run with -s/--show to see the configuration.")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// Exit here to prevent a very difficult to debug error from occurring.
		os.Exit(0)
	}

	return gs, nil
}
