// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// token-retriever walks a developer through the fast-tag browser login and
// saves the resulting JWT where the other tools expect to find it.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goschtalt/goschtalt"
	"github.com/xmidt-org/sallust"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	applicationName = "token-retriever"
)

// These match what goreleaser provides.
var (
	commit  = "undefined"
	version = "undefined"
	date    = "undefined"
	builtBy = "undefined"
)

// CLI is the structure that is used to capture the command line arguments.
type CLI struct {
	Provider  string   `arg:"" optional:"" enum:"google,github" default:"google" help:"OAuth provider to log in with (google or github)."`
	NoBrowser bool     `optional:"" help:"Print the login link instead of opening a browser."`
	Dev       bool     `optional:"" short:"d" help:"Run in development mode."`
	Show      bool     `optional:"" short:"s" help:"Show the configuration and exit."`
	Files     []string `optional:"" short:"f" help:"Specific configuration files or directories."`
}

// tokenRetriever is the main entry point for the program.  It is responsible
// for setting up the dependency injection framework and running the login
// flow.
func tokenRetriever(args []string) error {
	var (
		gscfg *goschtalt.Config

		// Capture if the program is being run in dev mode so the extra stuff
		// is output as requested.
		dev devMode

		// Capture if the program should gracefully exit early & without
		// reporting an error via logging.
		early earlyExit
	)

	app := fx.New(
		fx.Supply(cliArgs(args)),
		fx.Supply(&early),
		fx.Supply(&dev),
		fx.Populate(&gscfg),

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Provide(
			provideCLI,
			provideConfig,
			provideLogger,
			provideStore,
			provideFlow,
			provideClient,

			goschtalt.UnmarshalFunc[sallust.Config]("logger", goschtalt.Optional()),
			goschtalt.UnmarshalFunc[Service]("service"),
			goschtalt.UnmarshalFunc[Auth]("auth"),
			goschtalt.UnmarshalFunc[TokenFile]("token_file"),
		),

		fx.Invoke(
			handleCLIShow,
			retrieve,
		),
	)

	if bool(dev) && gscfg != nil {
		defer func() {
			fmt.Fprintln(os.Stderr, gscfg.Explain().String())
		}()
	}

	return app.Err()
}

func main() {
	err := tokenRetriever(os.Args[1:])

	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(-1)
}

// Provides a named type so it's a bit easier to flow through & use in fx.
type cliArgs []string

// Provides a named type so it's a bit easier to flow through & use in fx.
type earlyExit bool

// Provides a named type so it's a bit easier to flow through & use in fx.
type devMode bool

// Handle the CLI processing and return the processed input.
func provideCLI(args cliArgs, dev *devMode) (*CLI, error) {
	return provideCLIWithOpts(args, false, dev)
}

func provideCLIWithOpts(args cliArgs, testOpts bool, dev *devMode) (*CLI, error) {
	var cli CLI

	// Create a no-op option to satisfy the kong.New() call.
	var opt kong.Option = kong.OptionFunc(
		func(*kong.Kong) error {
			return nil
		},
	)

	if testOpts {
		opt = kong.Writers(io.Discard, io.Discard)
	}

	parser, err := kong.New(&cli,
		kong.Name(applicationName),
		kong.Description("Logs into the fast-tag service and saves the JWT.\n"+
			fmt.Sprintf("\tVersion:  %s\n", version)+
			fmt.Sprintf("\tDate:     %s\n", date)+
			fmt.Sprintf("\tCommit:   %s\n", commit)+
			fmt.Sprintf("\tBuilt By: %s\n", builtBy),
		),
		kong.UsageOnError(),
		opt,
	)
	if err != nil {
		return nil, err
	}

	if testOpts {
		parser.Exit = func(_ int) { panic("exit") }
	}

	_, err = parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	*dev = devMode(cli.Dev)
	return &cli, nil
}

// handleCLIShow handles the -s/--show option where the configuration is shown,
// then the program is exited.
func handleCLIShow(cli *CLI, cfg *goschtalt.Config, early *earlyExit) {
	if !cli.Show {
		return
	}

	fmt.Fprintln(os.Stdout, cfg.Explain().String())

	out, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	} else {
		fmt.Fprintln(os.Stdout, "## Final Configuration\n---\n"+string(out))
	}

	*early = earlyExit(true)
}

type LoggerIn struct {
	fx.In
	CLI *CLI
	Cfg sallust.Config
}

// Create the logger and configure it based on if the program is in
// debug mode or normal mode.
func provideLogger(in LoggerIn) (*zap.Logger, error) {
	if in.CLI.Dev {
		in.Cfg.Level = "DEBUG"
		in.Cfg.Development = true
		in.Cfg.Encoding = "console"
		in.Cfg.EncoderConfig = sallust.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    "capitalColor",
			EncodeTime:     "RFC3339",
			EncodeDuration: "string",
			EncodeCaller:   "short",
		}
		in.Cfg.OutputPaths = []string{"stderr"}
		in.Cfg.ErrorOutputPaths = []string{"stderr"}
	}

	return in.Cfg.Build()
}
