// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/browser"

	"github.com/fasttag-org/fasttag-cli/internal/authflow"
	afevent "github.com/fasttag-org/fasttag-cli/internal/authflow/event"
	"github.com/fasttag-org/fasttag-cli/internal/fasttag"
	ftevent "github.com/fasttag-org/fasttag-cli/internal/fasttag/event"
	fsos "github.com/fasttag-org/fasttag-cli/internal/fs/os"
	"github.com/fasttag-org/fasttag-cli/internal/tokenfile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type storeIn struct {
	fx.In
	TokenFile TokenFile
}

// provideStore builds the token file store the login flow writes to and the
// validation client reads back from.
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

type flowIn struct {
	fx.In
	CLI     *CLI
	Service Service
	Auth    Auth
	Logger  *zap.Logger
}

func (in flowIn) Options() ([]authflow.Option, error) {
	logger := in.Logger.Named("authflow")

	client, err := in.Service.HTTPClient.NewClient()
	if err != nil {
		return nil, err
	}

	return []authflow.Option{
		authflow.BaseURL(in.Service.URL),
		authflow.Provider(in.CLI.Provider),
		authflow.HTTPClient(client),
		authflow.PollInterval(in.Auth.PollInterval),
		authflow.MaxWait(in.Auth.MaxWait),
		authflow.AddBeginListener(afevent.BeginListenerFunc(
			func(e afevent.Begin) {
				logger.Debug("begin",
					zap.String("provider", e.Provider),
					zap.Time("at", e.At),
					zap.Duration("duration", e.Duration),
					zap.String("uuid", e.UUID.String()),
					zap.Int("status_code", e.StatusCode),
					zap.Error(e.Err),
				)
			})),
		authflow.AddPollListener(afevent.PollListenerFunc(
			func(e afevent.Poll) {
				logger.Debug("poll",
					zap.Int("attempt", e.Attempt),
					zap.Time("at", e.At),
					zap.Duration("duration", e.Duration),
					zap.String("uuid", e.UUID.String()),
					zap.Int("status_code", e.StatusCode),
					zap.String("status", e.Status),
					zap.Error(e.Err),
				)

				// One dot per poll so a human can see progress.
				fmt.Print(".")
			})),
	}, nil
}

func provideFlow(in flowIn) (*authflow.Flow, error) {
	opts, err := in.Options()
	if err != nil {
		return nil, err
	}

	return authflow.New(opts...)
}

type clientIn struct {
	fx.In
	Service Service
	Store   *tokenfile.Store
	Logger  *zap.Logger
}

func (in clientIn) Options() ([]fasttag.Option, error) {
	logger := in.Logger.Named("fasttag")

	client, err := in.Service.HTTPClient.NewClient()
	if err != nil {
		return nil, err
	}

	return []fasttag.Option{
		fasttag.BaseURL(in.Service.URL),
		fasttag.HTTPClient(client),
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

type retrieveIn struct {
	fx.In
	Early     *earlyExit
	CLI       *CLI
	TokenFile TokenFile
	Service   Service
	Flow      *authflow.Flow
	Store     *tokenfile.Store
	Client    *fasttag.Client
	Logger    *zap.Logger
}

// retrieve drives the whole login: begin, hand the URL to a browser, poll
// until the login finishes, save the token, then try the token out once.
func retrieve(in retrieveIn) error {
	if bool(*in.Early) {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := in.Logger.Named("retrieve")

	fmt.Printf("Starting a %s login against %s\n", in.CLI.Provider, in.Service.URL)

	session, err := in.Flow.Begin(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Open this link to finish logging in:")
	fmt.Println()
	fmt.Println("    " + session.AuthURL)
	fmt.Println()

	if in.CLI.NoBrowser {
		logger.Debug("browser launch disabled")
	} else if err := browser.OpenURL(session.AuthURL); err != nil {
		// Not fatal; the link above still works.
		logger.Warn("unable to open a browser", zap.Error(err))
		fmt.Println("No browser could be opened; use the link above instead.")
	}

	fmt.Print("Waiting for the login to finish")
	token, err := in.Flow.Wait(ctx, session)
	fmt.Println()
	if err != nil {
		return err
	}

	if err := in.Store.Save(token); err != nil {
		return err
	}

	where := filepath.Join(in.TokenFile.Directory, in.Store.Name())
	fmt.Println()
	fmt.Printf("Token saved to %s\n", where)
	fmt.Println()

	printTokenSummary(token)

	// One call with the saved token proves the whole round trip works.
	// The token is already on disk at this point, so only warn.
	if user, err := in.Client.Me(ctx); err != nil {
		logger.Warn("token validation call failed", zap.Error(err))
		fmt.Println("Warning: the saved token could not be validated against the service.")
	} else {
		fmt.Printf("Token validated; logged in as %s.\n", user.Email)
	}

	printUsageExamples(where, in.Service.URL)

	return nil
}

// printTokenSummary shows the interesting claims.  The signature is not
// checked here; the service owns verification.
func printTokenSummary(token string) {
	fmt.Println("Token:")
	fmt.Println()
	fmt.Println("    " + token)
	fmt.Println()

	tok, err := jwt.ParseString(token,
		jwt.WithVerify(false),
		jwt.WithValidate(false),
	)
	if err != nil {
		fmt.Println("The token does not decode as a JWT, but was saved anyway.")
		fmt.Println()
		return
	}

	fmt.Println("Claims:")
	if sub := tok.Subject(); sub != "" {
		fmt.Printf("    %-10s %s\n", "subject:", sub)
	}
	for _, claim := range []string{"email", "name", "provider"} {
		if v, ok := tok.Get(claim); ok {
			fmt.Printf("    %-10s %v\n", claim+":", v)
		}
	}
	if exp := tok.Expiration(); !exp.IsZero() {
		fmt.Printf("    %-10s %s (in %s)\n", "expires:",
			exp.Format(time.RFC3339),
			time.Until(exp).Round(time.Minute))
	}
	fmt.Println()
}

// printUsageExamples mirrors what the smoke tester and plain curl expect.
func printUsageExamples(where, serviceURL string) {
	fmt.Println("Use the token like this:")
	fmt.Println()
	fmt.Printf("    source %s\n", where)
	fmt.Printf("    curl -H \"Authorization: Bearer $JWT_TOKEN\" %s/me\n", serviceURL)
	fmt.Println()
	fmt.Println("or run the smoke tester from the same directory:")
	fmt.Println()
	fmt.Println("    smoke-tester")
	fmt.Println()
}
