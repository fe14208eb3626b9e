// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/k0kubun/pp/v3"

	"github.com/fasttag-org/fasttag-cli/internal/fasttag"
	ftevent "github.com/fasttag-org/fasttag-cli/internal/fasttag/event"
	fsos "github.com/fasttag-org/fasttag-cli/internal/fs/os"
	"github.com/fasttag-org/fasttag-cli/internal/smoketest"
	stevent "github.com/fasttag-org/fasttag-cli/internal/smoketest/event"
	"github.com/fasttag-org/fasttag-cli/internal/tokenfile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type storeIn struct {
	fx.In
	TokenFile TokenFile
}

// provideStore builds the token file store the smoke test reads from.
func provideStore(in storeIn) (*tokenfile.Store, error) {
	root, err := fsos.New(in.TokenFile.Directory)
	if err != nil {
		return nil, err
	}

	return tokenfile.New(
		tokenfile.Storage(root),
		tokenfile.FileName(in.TokenFile.Name),
		tokenfile.FilePermissions(in.TokenFile.Permissions),
	)
}

type clientIn struct {
	fx.In
	Service Service
	Smoke   Smoke
	Store   *tokenfile.Store
	Logger  *zap.Logger
}

func (in clientIn) Options() ([]fasttag.Option, error) {
	logger := in.Logger.Named("fasttag")

	client, err := in.Service.HTTPClient.NewClient()
	if err != nil {
		return nil, err
	}

	var probe *http.Client
	if in.Smoke.ProbeTimeout > 0 {
		probe = &http.Client{Timeout: in.Smoke.ProbeTimeout}
	}

	return []fasttag.Option{
		fasttag.BaseURL(in.Service.URL),
		fasttag.HTTPClient(client),
		fasttag.ProbeHTTPClient(probe),
		fasttag.UserAgent(applicationName + "/" + version),
		fasttag.CredentialsDecorator(func(header http.Header) error {
			token, err := in.Store.Load()
			if err != nil {
				return err
			}

			header.Set("Authorization", "Bearer "+token)
			return nil
		}),
		fasttag.AddCallListener(ftevent.CallListenerFunc(
			func(e ftevent.Call) {
				logger.Debug("call",
					zap.String("method", e.Method),
					zap.String("path", e.Path),
					zap.Time("at", e.At),
					zap.Duration("duration", e.Duration),
					zap.String("uuid", e.UUID.String()),
					zap.Int("status_code", e.StatusCode),
					zap.Error(e.Err),
				)

				printBody(e.Body)
			})),
	}, nil
}

func provideClient(in clientIn) (*fasttag.Client, error) {
	opts, err := in.Options()
	if err != nil {
		return nil, err
	}

	return fasttag.New(opts...)
}

// printBody shows a response body, reindented, under the current step.
// Bodies that are not JSON stay hidden; the outcome line covers them.
func printBody(body []byte) {
	if len(body) == 0 {
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "    ", "  "); err != nil {
		return
	}

	fmt.Println("    " + pretty.String())
}

type runnerIn struct {
	fx.In
	Smoke  Smoke
	Client *fasttag.Client
	Logger *zap.Logger
}

func (in runnerIn) Options() ([]smoketest.Option, error) {
	logger := in.Logger.Named("smoketest")

	return []smoketest.Option{
		smoketest.Client(in.Client),
		smoketest.PresignKey(in.Smoke.PresignKey),
		smoketest.PresignExpiry(in.Smoke.PresignExpiry),
		smoketest.MaxProbes(in.Smoke.MaxProbes),
		smoketest.StoragePrefix(in.Smoke.StoragePrefix),
		smoketest.AddStepListener(stevent.StepListenerFunc(
			func(e stevent.Step) {
				fmt.Printf("\n%d. %s\n", e.Number, e.Name)
			})),
		smoketest.AddOutcomeListener(stevent.OutcomeListenerFunc(
			func(e stevent.Outcome) {
				logger.Debug("outcome",
					zap.Int("step", e.Step.Number),
					zap.String("name", e.Step.Name),
					zap.Duration("duration", e.Duration),
					zap.Bool("skipped", e.Skipped),
					zap.Error(e.Err),
				)

				switch {
				case e.Skipped:
					fmt.Printf("    - skipped: %s\n", strings.Join(e.Details, "; "))
				case e.Err != nil:
					fmt.Printf("    ⚠ failed: %v\n", e.Err)
				default:
					for _, line := range e.Details {
						fmt.Println("    " + line)
					}
					fmt.Printf("    ✓ ok (%s)\n", e.Duration.Round(time.Millisecond))
				}
			})),
	}, nil
}

func provideRunner(in runnerIn) (*smoketest.Runner, error) {
	opts, err := in.Options()
	if err != nil {
		return nil, err
	}

	return smoketest.New(opts...)
}

type smokeIn struct {
	fx.In
	Early     *earlyExit
	Dev       *devMode
	TokenFile TokenFile
	Service   Service
	Store     *tokenfile.Store
	Runner    *smoketest.Runner
	Logger    *zap.Logger
}

// smoke checks the token, runs the fixed sequence, and summarizes.  Step
// failures are informational; only a missing or unusable token, a broken
// configuration, or cancellation make the program exit non-zero.
func smoke(in smokeIn) error {
	if bool(*in.Early) {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	where := filepath.Join(in.TokenFile.Directory, in.Store.Name())

	// The token is read before anything touches the network so a missing
	// or unusable file fails fast.
	if _, err := in.Store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "No usable token in %s: %v\n", where, err)
		fmt.Fprintln(os.Stderr, "Run token-retriever to log in first.")
		return err
	}

	fmt.Printf("Smoke testing %s with the token from %s\n", in.Service.URL, where)

	sum, err := in.Runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%d step(s) ran, %d failed, %d skipped.\n",
		sum.Ran, sum.Failed, sum.Skipped)
	if sum.Failed > 0 {
		fmt.Println("Failed steps are reported above; the exit status stays zero.")
	}

	if bool(*in.Dev) {
		fmt.Fprintln(os.Stderr, pp.Sprint(sum))
	}

	in.Logger.Named("smoke").Debug("run finished",
		zap.Int("ran", sum.Ran),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.String("project_id", sum.ProjectID),
	)

	return nil
}
