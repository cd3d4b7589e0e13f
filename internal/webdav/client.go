// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package webdav is a minimal WebDAV client covering the verbs needed to
// keep backups in a remote collection: MKCOL, PUT, GET and PROPFIND, all
// with HTTP Basic authentication. Status codes are reported as received;
// callers decide what a 405 on MKCOL means.
package webdav

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when the caller does not supply one.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 32 << 20

// Request describes one WebDAV call.
type Request struct {
	Method   string
	URL      string
	Username string
	Password string
	Body     []byte
	Header   http.Header
}

// Response is the outcome of a call that reached the server.
type Response struct {
	Success bool
	Status  int
	Body    []byte
}

// Client issues WebDAV requests.
type Client struct {
	http *http.Client
}

// NewClient returns a client whose requests time out after timeout.
// A zero timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewClientWith wraps an existing http.Client, mostly for tests.
func NewClientWith(hc *http.Client) *Client {
	return &Client{http: hc}
}

// Do performs the request. Only transport failures (DNS, refused
// connection, TLS, timeout) are returned as errors; any HTTP status is a
// Response.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("webdav %s: %w", r.Method, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Username != "" || r.Password != "" {
		req.SetBasicAuth(r.Username, r.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webdav %s %s: %w", r.Method, r.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("webdav %s read body: %w", r.Method, err)
	}

	return &Response{
		Success: resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:  resp.StatusCode,
		Body:    data,
	}, nil
}

// Credentials identify the remote account.
type Credentials struct {
	Username string
	Password string
}

// Mkcol creates the collection at url.
func (c *Client) Mkcol(ctx context.Context, url string, cred Credentials) (*Response, error) {
	return c.Do(ctx, Request{Method: "MKCOL", URL: url, Username: cred.Username, Password: cred.Password})
}

// Put uploads a JSON document to url.
func (c *Client) Put(ctx context.Context, url string, cred Credentials, data []byte) (*Response, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return c.Do(ctx, Request{Method: http.MethodPut, URL: url, Username: cred.Username, Password: cred.Password, Body: data, Header: h})
}

// Get downloads url.
func (c *Client) Get(ctx context.Context, url string, cred Credentials) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: url, Username: cred.Username, Password: cred.Password})
}

// Join builds the URL of name inside the collection path under base. Base
// is expected to end with a slash; leading slashes of path are dropped.
func Join(base, path, name string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimLeft(path, "/") + name
}
