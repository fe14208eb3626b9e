// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// Package authflow drives the browser based OAuth flow against the fast-tag
// service: it requests an authentication session, then polls until the user
// finishes signing in, the service reports a failure, or the wall clock
// budget runs out.
package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/authflow/event"
	"github.com/google/uuid"
	"github.com/xmidt-org/eventor"
	"github.com/xmidt-org/retry"
)

var (
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrBeginFailed     = fmt.Errorf("authentication session request failed")
	ErrInvalidResponse = fmt.Errorf("invalid response")
	ErrAuthFailed      = fmt.Errorf("authentication failed")
	ErrNoToken         = fmt.Errorf("no token in completed response")
	ErrPollTimeout     = fmt.Errorf("polling timed out")
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	DefaultProvider     = ProviderGoogle
	DefaultPollInterval = 2 * time.Second
	DefaultMaxWait      = 5 * time.Minute
)

// Authentication statuses the service reports while polling.  Anything
// outside this set is treated as a terminal failure.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

/*
Notes:
  - The network interface, timeout, redirect policy and TLS configuration
    are all set via the http.Client.
  - Transport errors, unexpected status codes and undecodable bodies during
    polling are treated exactly like a pending answer, so a flaky network
    does not end the wait early.  The wall clock budget still applies.
*/
type Flow struct {
	baseURL        string
	provider       string
	client         *http.Client
	pollInterval   time.Duration
	maxWait        time.Duration
	policyFactory  retry.PolicyFactory
	nowFunc        func() time.Time
	beginListeners eventor.Eventor[event.BeginListener]
	pollListeners  eventor.Eventor[event.PollListener]
}

// Session is an in-flight authentication attempt.  The AuthURL goes to the
// user; the PollToken is what the service keyed the attempt by.
type Session struct {
	Provider  string
	AuthURL   string
	PollToken string
}

// Option is the interface implemented by types that can be used to
// configure the flow.
type Option interface {
	apply(*Flow) error
}

// New creates a new authentication flow.
func New(opts ...Option) (*Flow, error) {
	required := []Option{
		baseURLVador(),
		providerVador(),
		defaultPolicy(),
	}

	f := Flow{
		provider:     DefaultProvider,
		client:       http.DefaultClient,
		pollInterval: DefaultPollInterval,
		maxWait:      DefaultMaxWait,
		nowFunc:      time.Now,
	}

	opts = append(opts, required...)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt.apply(&f)
		if err != nil {
			return nil, err
		}
	}

	return &f, nil
}

// Begin asks the service to start an authentication session for the
// configured provider.  Any failure here is terminal.
func (f *Flow) Begin(ctx context.Context) (Session, error) {
	var be event.Begin
	be.Provider = f.provider

	s := Session{Provider: f.provider}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.baseURL+"/auth/"+url.PathEscape(f.provider), nil)
	if err != nil {
		be.Err = errors.Join(err, ErrBeginFailed)
		return s, f.dispatch(be)
	}

	tid, err := uuid.NewRandom()
	if err != nil {
		be.Err = errors.Join(err, ErrBeginFailed)
		return s, f.dispatch(be)
	}
	be.UUID = tid

	be.At = time.Now()
	resp, err := f.client.Do(req)
	be.Duration = time.Since(be.At)
	if err != nil {
		be.Err = errors.Join(err, ErrBeginFailed)
		return s, f.dispatch(be)
	}
	defer resp.Body.Close()

	be.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		be.Err = errors.Join(err, ErrBeginFailed)
		return s, f.dispatch(be)
	}

	if resp.StatusCode != http.StatusOK {
		be.Err = fmt.Errorf("%w: unexpected status code: %d", ErrBeginFailed, resp.StatusCode)
		return s, f.dispatch(be)
	}

	var out struct {
		AuthURL   string `json:"auth_url"`
		PollToken string `json:"poll_token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		be.Err = errors.Join(err, ErrInvalidResponse, ErrBeginFailed)
		return s, f.dispatch(be)
	}

	if out.AuthURL == "" || out.PollToken == "" {
		be.Err = fmt.Errorf("%w: auth_url or poll_token missing", ErrInvalidResponse)
		return s, f.dispatch(be)
	}

	s.AuthURL = out.AuthURL
	s.PollToken = out.PollToken
	be.AuthURL = out.AuthURL

	return s, f.dispatch(be)
}

// Wait polls the service until the session completes, fails, or the wall
// clock budget is spent.  On success the JWT is returned.
//
// The first poll happens one interval after Wait is called, matching the
// pace a user needs to finish signing in anyway.  The budget is checked
// before each sleep, so Wait overruns maxWait by at most one interval plus
// one in-flight request.
func (f *Flow) Wait(ctx context.Context, s Session) (string, error) {
	if s.PollToken == "" {
		return "", fmt.Errorf("%w: poll token is missing", ErrInvalidInput)
	}

	deadline := f.nowFunc().Add(f.maxWait)
	policy := f.policyFactory.NewPolicy(ctx)

	for attempt := 1; ; attempt++ {
		if !f.nowFunc().Before(deadline) {
			return "", fmt.Errorf("%w: no completion after %s", ErrPollTimeout, f.maxWait)
		}

		next, ok := policy.Next()
		if !ok {
			return "", ErrPollTimeout
		}

		select {
		case <-time.After(next):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		token, done, err := f.poll(ctx, s, attempt)
		if done {
			return token, err
		}
	}
}

// poll performs one poll attempt.  done reports whether the wait is over;
// transient problems leave done false and are only visible via the event.
func (f *Flow) poll(ctx context.Context, s Session, attempt int) (string, bool, error) {
	var pe event.Poll
	pe.Attempt = attempt

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.baseURL+"/auth/poll/"+url.PathEscape(s.PollToken), nil)
	if err != nil {
		pe.Err = errors.Join(err, ErrInvalidInput)
		return "", true, f.dispatch(pe)
	}

	tid, err := uuid.NewRandom()
	if err == nil {
		pe.UUID = tid
	}

	pe.At = time.Now()
	resp, err := f.client.Do(req)
	pe.Duration = time.Since(pe.At)
	if err != nil {
		// Treat like pending; the context ending is handled by the caller.
		pe.Err = err
		_ = f.dispatch(pe)
		return "", false, nil
	}
	defer resp.Body.Close()

	pe.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		pe.Err = err
		_ = f.dispatch(pe)
		return "", false, nil
	}

	if resp.StatusCode != http.StatusOK {
		pe.Err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		_ = f.dispatch(pe)
		return "", false, nil
	}

	var out struct {
		Status string `json:"status"`
		JWT    string `json:"jwt"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		pe.Err = errors.Join(err, ErrInvalidResponse)
		_ = f.dispatch(pe)
		return "", false, nil
	}

	pe.Status = out.Status

	switch out.Status {
	case StatusCompleted:
		if out.JWT == "" {
			pe.Err = ErrNoToken
			return "", true, f.dispatch(pe)
		}
		return out.JWT, true, f.dispatch(pe)
	case StatusPending:
		_ = f.dispatch(pe)
		return "", false, nil
	case "":
		pe.Err = fmt.Errorf("%w: status missing", ErrInvalidResponse)
		_ = f.dispatch(pe)
		return "", false, nil
	default:
		// expired, not_found, error, or anything else the service invents.
		pe.Err = fmt.Errorf("%w: status %q", ErrAuthFailed, out.Status)
		return "", true, f.dispatch(pe)
	}
}

// dispatch dispatches the event to the listeners and returns the error that
// should be returned by the caller.
func (f *Flow) dispatch(evnt any) error {
	switch evnt := evnt.(type) {
	case event.Begin:
		f.beginListeners.Visit(func(listener event.BeginListener) {
			listener.OnBegin(evnt)
		})
		return evnt.Err
	case event.Poll:
		f.pollListeners.Visit(func(listener event.PollListener) {
			listener.OnPoll(evnt)
		})
		return evnt.Err
	}

	panic("unknown event type")
}
