// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the package tests.
package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is an online endpoint used by tests that perform real network I/O.
const TestOnlineAPIURL = "https://api.weatherapi.com/v1/current.json"

// MockRoundTripper routes HTTP requests through a caller-supplied function.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

// RoundTrip implements the http.RoundTripper interface.
func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the current test unless integration tests are enabled
// via the SKYCAST_INTEGRATION_TESTS environment variable.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv("SKYCAST_INTEGRATION_TESTS") == "" {
		t.Skip("skipping integration test, set SKYCAST_INTEGRATION_TESTS to enable")
	}
}
