package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stretchr/testify/require"
)

// BuildAuthRequest sets standard headers for test requests. An empty
// jwtString sends the request unauthenticated.
func (h *TestHelper) BuildAuthRequest(method, reqURL, jwtString string, body []byte) *http.Request {
	req, err := http.NewRequestWithContext(h.Ctx, method, reqURL, bytes.NewReader(body))
	require.NoError(h.T, err)

	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewHTTPClient creates an HTTP client suitable for integration tests.
func (h *TestHelper) NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request, client *http.Client) *http.Response {
	resp, err := client.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// DoJSON marshals body, sends it with a fresh token and returns the response.
func (h *TestHelper) DoJSON(method, path string, body any) *http.Response {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(h.T, err)
	}
	req := h.BuildAuthRequest(method, h.BaseURL+path, h.CreateJWT("integration-test"), raw)
	return h.DoRequest(req, h.NewHTTPClient())
}

// DecodeBody reads resp into dst and closes the body.
func (h *TestHelper) DecodeBody(resp *http.Response, dst any) {
	defer resp.Body.Close()
	require.NoError(h.T, json.NewDecoder(resp.Body).Decode(dst))
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// After reading, we need to restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}
