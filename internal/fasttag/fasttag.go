// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

// Package fasttag is a typed, read only client for the fast-tag service.
// Every request is reported to registered listeners so callers can render
// progress or log traffic without the client knowing about either.
package fasttag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/fasttag/event"
	"github.com/google/uuid"
	"github.com/xmidt-org/eventor"
)

var (
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrCallNotAttempted = fmt.Errorf("call not attempted")
	ErrCallFailed       = fmt.Errorf("call failed")
	ErrInvalidResponse  = fmt.Errorf("invalid response")
	ErrNoDownloadURL    = fmt.Errorf("no download url in response")
)

const (
	DefaultUserAgent    = "fasttag-cli"
	DefaultProbeTimeout = 5 * time.Second
)

// StatusError is returned when the service answers with a status outside
// the 2xx range.  The body is kept so callers can surface the service's
// own error text.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

/*
Notes:
  - The network interface, timeout, redirect policy, TLS configuration and
    proxy behavior are all set via the http.Client.
  - Probe requests go to presigned URLs outside the service, so they use a
    separate client with a short timeout and no credential decoration.
*/
type Client struct {
	baseURL       string
	client        *http.Client
	probeClient   *http.Client
	userAgent     string
	decorate      func(http.Header) error
	nowFunc       func() time.Time
	callListeners eventor.Eventor[event.CallListener]
}

// Option is the interface implemented by types that can be used to
// configure the client.
type Option interface {
	apply(*Client) error
}

// New creates a new fast-tag service client.
func New(opts ...Option) (*Client, error) {
	required := []Option{
		baseURLVador(),
	}

	c := Client{
		client:      http.DefaultClient,
		probeClient: &http.Client{Timeout: DefaultProbeTimeout},
		userAgent:   DefaultUserAgent,
		decorate:    func(http.Header) error { return nil },
		nowFunc:     time.Now,
	}

	opts = append(opts, required...)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt.apply(&c)
		if err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// Health checks the service health.  No credentials are sent.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health

	body, err := c.get(ctx, "/health", false, nil)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, errors.Join(err, ErrInvalidResponse)
	}

	return out, nil
}

// Me returns the account the configured credentials belong to.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out userEnvelope

	body, err := c.get(ctx, "/me", true, nil)
	if err != nil {
		return out.User, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out.User, errors.Join(err, ErrInvalidResponse)
	}

	return out.User, nil
}

// Projects lists the projects the account can see.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out projectsEnvelope

	body, err := c.get(ctx, "/projects", true, nil)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Join(err, ErrInvalidResponse)
	}

	return out.Projects, nil
}

// StorageObjects lists the object keys in the project's storage.  A
// non-empty prefix narrows the listing server side.
func (c *Client) StorageObjects(ctx context.Context, projectID, prefix string) ([]string, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is missing", ErrInvalidInput)
	}

	var header http.Header
	if prefix != "" {
		header = http.Header{}
		header.Set("x-prefix", prefix)
	}

	var out objectsEnvelope

	body, err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/storage", true, header)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Join(err, ErrInvalidResponse)
	}

	return out.Objects, nil
}

// PresignedURL asks the service for a time limited download URL for the
// object key.  The call succeeds only when the response carries a
// download_url value.
func (c *Client) PresignedURL(ctx context.Context, projectID, key string, expiresIn time.Duration) (string, error) {
	if projectID == "" {
		return "", fmt.Errorf("%w: project id is missing", ErrInvalidInput)
	}
	if key == "" {
		return "", fmt.Errorf("%w: object key is missing", ErrInvalidInput)
	}
	if expiresIn <= 0 {
		return "", fmt.Errorf("%w: expiry must be positive", ErrInvalidInput)
	}

	header := http.Header{}
	header.Set("x-expires-in", strconv.Itoa(int(expiresIn/time.Second)))

	path := "/projects/" + url.PathEscape(projectID) +
		"/storage/" + url.PathEscape(key) + "/url"

	var out presignEnvelope

	body, err := c.get(ctx, path, true, header)
	if err != nil {
		return "", err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Join(err, ErrInvalidResponse)
	}

	if out.DownloadURL == nil {
		return "", ErrNoDownloadURL
	}

	return *out.DownloadURL, nil
}

// Tasks lists the tasks in the project.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]Task, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is missing", ErrInvalidInput)
	}

	var out tasksEnvelope

	body, err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/tasks", true, nil)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Join(err, ErrInvalidResponse)
	}

	return out.Tasks, nil
}

// Probe fetches the URL with the probe client and reports the status code.
// The URL is typically a presigned resource URL, so no credentials are sent
// and the body is discarded unread.
func (c *Client) Probe(ctx context.Context, rawURL string) (int, error) {
	var ce event.Call
	ce.Method = http.MethodGet
	ce.Path = rawURL

	if rawURL == "" {
		ce.Err = fmt.Errorf("%w: url is missing", ErrInvalidInput)
		return 0, c.dispatch(ce)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		ce.Err = errors.Join(err, ErrCallNotAttempted)
		return 0, c.dispatch(ce)
	}

	tid, err := uuid.NewRandom()
	if err != nil {
		ce.Err = errors.Join(err, ErrCallNotAttempted)
		return 0, c.dispatch(ce)
	}
	ce.UUID = tid

	req.Header.Set("User-Agent", c.userAgent)

	ce.At = c.nowFunc()
	resp, err := c.probeClient.Do(req)
	ce.Duration = time.Since(ce.At)
	if err != nil {
		ce.Err = errors.Join(err, ErrCallFailed)
		return 0, c.dispatch(ce)
	}
	resp.Body.Close()

	ce.StatusCode = resp.StatusCode
	return resp.StatusCode, c.dispatch(ce)
}

// get performs a single GET against the service and returns the raw body.
// All responses outside the 2xx range map to a *StatusError.
func (c *Client) get(ctx context.Context, path string, decorate bool, header http.Header) ([]byte, error) {
	var ce event.Call
	ce.Method = http.MethodGet
	ce.Path = path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		ce.Err = errors.Join(err, ErrCallNotAttempted)
		return nil, c.dispatch(ce)
	}

	tid, err := uuid.NewRandom()
	if err != nil {
		ce.Err = errors.Join(err, ErrCallNotAttempted)
		return nil, c.dispatch(ce)
	}
	ce.UUID = tid

	req.Header.Set("User-Agent", c.userAgent)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if decorate {
		if err := c.decorate(req.Header); err != nil {
			ce.Err = errors.Join(err, ErrCallNotAttempted)
			return nil, c.dispatch(ce)
		}
	}

	ce.At = c.nowFunc()
	resp, err := c.client.Do(req)
	ce.Duration = time.Since(ce.At)
	if err != nil {
		ce.Err = errors.Join(err, ErrCallFailed)
		return nil, c.dispatch(ce)
	}
	defer resp.Body.Close()

	ce.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ce.Err = errors.Join(err, ErrCallFailed)
		return nil, c.dispatch(ce)
	}
	ce.Body = body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		ce.Err = &StatusError{
			Code: resp.StatusCode,
			Body: body,
		}
		return nil, c.dispatch(ce)
	}

	return body, c.dispatch(ce)
}

// dispatch dispatches the event to the listeners and returns the error that
// should be returned by the caller.
func (c *Client) dispatch(ce event.Call) error {
	c.callListeners.Visit(func(listener event.CallListener) {
		listener.OnCall(ce)
	})
	return ce.Err
}
