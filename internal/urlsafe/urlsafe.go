// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package urlsafe decides whether a user-supplied URL may be handed to an
// outbound request. Hosts are matched by string prefix against a fixed
// denylist of loopback and private ranges. Names are not resolved, so a
// public name pointing at a private address passes.
package urlsafe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotAllowed is wrapped by Check for every rejected URL.
var ErrNotAllowed = errors.New("url not allowed")

var blockedPrefixes = []string{
	"localhost",
	"127.",
	"0.0.0.0",
	"10.",
	"192.168.",
	"::1",
	"0:0:0:0:0:0:0:1",
}

func init() {
	for n := 16; n <= 31; n++ {
		blockedPrefixes = append(blockedPrefixes, fmt.Sprintf("172.%d.", n))
	}
}

// IsSafe reports whether raw is an http or https URL whose host is not on
// the denylist.
func IsSafe(raw string) bool {
	return Check(raw, false) == nil
}

// IsSafeWebDAV is IsSafe restricted to https.
func IsSafeWebDAV(raw string) bool {
	return Check(raw, true) == nil
}

// Check is IsSafe with a reason. When httpsOnly is set, plain http is
// rejected as well.
func Check(raw string, httpsOnly bool) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}

	switch u.Scheme {
	case "https":
	case "http":
		if httpsOnly {
			return fmt.Errorf("%w: https is required", ErrNotAllowed)
		}
	default:
		return fmt.Errorf("%w: scheme %q", ErrNotAllowed, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrNotAllowed)
	}
	for _, p := range blockedPrefixes {
		if strings.HasPrefix(host, p) {
			return fmt.Errorf("%w: host %s is private", ErrNotAllowed, host)
		}
	}
	return nil
}
