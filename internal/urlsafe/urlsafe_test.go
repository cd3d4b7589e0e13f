// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package urlsafe

import (
	"errors"
	"testing"
)

func TestIsSafe(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"HTTPS://Example.COM/path?q=1", true},
		{"https://10.0.0.1.example.com", false}, // prefix match on the hostname
		{"https://172.15.0.1", true},
		{"https://172.32.0.1", true},
		{"http://localhost/x", false},
		{"http://LOCALHOST:8080", false},
		{"http://127.0.0.1/x", false},
		{"http://0.0.0.0", false},
		{"http://10.1.2.3", false},
		{"http://172.16.0.1", false},
		{"http://172.31.255.255", false},
		{"http://192.168.1.1", false},
		{"http://[::1]:8080/", false},
		{"http://[0:0:0:0:0:0:0:1]/", false},
		{"ftp://example.com", false},
		{"file:///etc/passwd", false},
		{"javascript:alert(1)", false},
		{"example.com", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsSafe(tt.url); got != tt.want {
				t.Errorf("IsSafe(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsSafeWebDAV(t *testing.T) {
	if IsSafeWebDAV("http://dav.example.com/") {
		t.Error("plain http must be rejected for WebDAV")
	}
	if !IsSafeWebDAV("https://dav.example.com/") {
		t.Error("https public host must be accepted")
	}
	if IsSafeWebDAV("https://192.168.0.10/dav/") {
		t.Error("private host must be rejected")
	}
}

func TestCheckWrapsErrNotAllowed(t *testing.T) {
	err := Check("http://127.0.0.1", false)
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("Check error = %v, want ErrNotAllowed", err)
	}
}

// The denylist is prefix based, so some public addresses are blocked too.
func TestPrefixOverBlocking(t *testing.T) {
	if IsSafe("http://172.160.0.1") {
		t.Error("172.160.0.1 is expected to be blocked by the 172.16. prefix")
	}
}
