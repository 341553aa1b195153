// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package httpapi provides the connectivity-gated JSON API client. Every
// request checks the reachability monitor first and fails fast with
// ErrNoNetwork when the network path is down, so callers own the fallback
// policy without ever waiting on a dead network.
package httpapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/netmon"
)

const (
	// DefaultTimeout is the default timeout value for the Client
	DefaultTimeout = time.Second * 10
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) skycast/%s (+https://github.com/skycastd/skycast/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	// ErrNoNetwork is returned when the reachability monitor reports a
	// disconnected network path. No network attempt has been made.
	ErrNoNetwork = errors.New("no network connection available")

	// ErrGeneric is returned for URL construction failures, transport failures
	// and response bodies that decode neither as the target type nor as the
	// API error envelope.
	ErrGeneric = errors.New("request failed")

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")
)

// ServerError is an error message reported by the API inside its error envelope.
type ServerError struct {
	Message string
}

// Error satisfies the error interface for the ServerError type.
func (e *ServerError) Error() string {
	return e.Message
}

// errorEnvelope is the typed error payload the API returns on failed requests.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a type wrapper for the Go stdlib http.Client carrying the API base
// URL and the reachability monitor that gates all requests.
type Client struct {
	*http.Client
	baseURL string
	monitor netmon.Monitor
	logger  *logger.Logger
}

// New returns a new API client for the given base URL. Requests are gated by
// the given reachability monitor.
func New(baseURL string, monitor netmon.Monitor, logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, baseURL, monitor, logger}
}

// Get performs a HTTP GET request for the given API path and json-unmarshals
// the response into target
func (c *Client) Get(ctx context.Context, path string, target any, query url.Values) (int, error) {
	return c.Request(ctx, http.MethodGet, path, target, query)
}

// Request performs a HTTP request with the given method for the given API path
// and json-unmarshals the response into target
func (c *Client) Request(ctx context.Context, method, path string, target any, query url.Values) (int, error) {
	return c.RequestWithTimeout(ctx, method, path, target, query, DefaultTimeout)
}

// RequestWithTimeout performs a HTTP request with the given method, API path and
// timeout and JSON-unmarshals the response into target.
//
// The request fails with ErrNoNetwork before any network I/O if the
// reachability monitor reports a disconnected path. A response that decodes as
// the API error envelope fails with a *ServerError carrying the reported
// message; any other undecodable response fails with ErrGeneric.
func (c *Client) RequestWithTimeout(ctx context.Context, method, path string, target any, query url.Values,
	timeout time.Duration,
) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	if c.monitor != nil && c.monitor.State() == netmon.StateDisconnected {
		return 0, ErrNoNetwork
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %s: %w", err, ErrGeneric)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed create new HTTP request with context: %s: %w", err, ErrGeneric)
	}
	request.Header.Set("User-Agent", UserAgent)

	// Execute HTTP request
	response, err := c.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to perform HTTP request: %s: %w", err, ErrGeneric)
	}
	if response == nil {
		return 0, fmt.Errorf("nil response received: %w", ErrGeneric)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return response.StatusCode, fmt.Errorf("failed to read response body: %s: %w", err, ErrGeneric)
	}

	// Unmarshal the JSON API response into target. Failed requests carry the
	// typed error envelope instead of the requested type.
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response.StatusCode, decodeError(body)
	}
	if err = json.Unmarshal(body, target); err != nil {
		return response.StatusCode, decodeError(body)
	}

	return response.StatusCode, nil
}

// decodeError maps a response body to a *ServerError if it carries the API
// error envelope, or to ErrGeneric otherwise.
func decodeError(body []byte) error {
	envelope := new(errorEnvelope)
	if err := json.Unmarshal(body, envelope); err == nil && envelope.Error.Message != "" {
		return &ServerError{Message: envelope.Error.Message}
	}
	return fmt.Errorf("undecodable response body: %w", ErrGeneric)
}
