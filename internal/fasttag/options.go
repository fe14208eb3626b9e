// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package fasttag

import (
	"net/http"
	"strings"
	"time"

	"github.com/fasttag-org/fasttag-cli/internal/fasttag/event"
)

type optionFunc func(*Client) error

var _ Option = optionFunc(nil)

func (f optionFunc) apply(c *Client) error {
	return f(c)
}

type nilOptionFunc func(*Client)

var _ Option = nilOptionFunc(nil)

func (f nilOptionFunc) apply(c *Client) error {
	f(c)
	return nil
}

// BaseURL is the root URL of the fast-tag service, without a trailing
// slash.  Required.
func BaseURL(baseURL string) Option {
	return nilOptionFunc(
		func(c *Client) {
			c.baseURL = strings.TrimRight(baseURL, "/")
		})
}

// HTTPClient is the HTTP client used for service calls.
func HTTPClient(client *http.Client) Option {
	return nilOptionFunc(
		func(c *Client) {
			if client == nil {
				client = http.DefaultClient
			}
			c.client = client
		})
}

// ProbeHTTPClient is the HTTP client used for resource probe calls.  Probes
// reach outside the service, so this client should carry a short timeout.
func ProbeHTTPClient(client *http.Client) Option {
	return nilOptionFunc(
		func(c *Client) {
			if client == nil {
				client = &http.Client{Timeout: DefaultProbeTimeout}
			}
			c.probeClient = client
		})
}

// CredentialsDecorator sets the function that decorates request headers
// with credentials.  Health checks and probes are never decorated.
func CredentialsDecorator(f func(http.Header) error) Option {
	return nilOptionFunc(
		func(c *Client) {
			if f == nil {
				f = func(http.Header) error { return nil }
			}
			c.decorate = f
		})
}

// UserAgent sets the User-Agent header sent with every request.  If empty
// the default is used.
func UserAgent(ua string) Option {
	return nilOptionFunc(
		func(c *Client) {
			if ua == "" {
				ua = DefaultUserAgent
			}
			c.userAgent = ua
		})
}

// NowFunc is the function used to obtain the current time.
func NowFunc(nowFunc func() time.Time) Option {
	return nilOptionFunc(
		func(c *Client) {
			if nowFunc == nil {
				nowFunc = time.Now
			}
			c.nowFunc = nowFunc
		})
}

// AddCallListener adds a listener for call events.  If the optional cancel
// parameter is provided, it is set to a function that can be used to cancel
// the listener.
func AddCallListener(listener event.CallListener, cancel ...*event.CancelListenerFunc) Option {
	return nilOptionFunc(
		func(c *Client) {
			cncl := c.callListeners.Add(listener)
			if len(cancel) > 0 && cancel[0] != nil {
				*cancel[0] = event.CancelListenerFunc(cncl)
			}
		})
}
