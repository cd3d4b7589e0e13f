// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package favicon lists URLs where a site's icon is likely to be found.
// Nothing is fetched here; the browser tries the candidates itself.
package favicon

import (
	"fmt"
	"net/url"
	"strings"

	"itab/internal/urlsafe"
)

// Candidates holds the icon URLs for one site, best guess first.
type Candidates struct {
	Favicons []string `json:"favicons"`
	Domain   string   `json:"domain"`
}

// Lookup returns the candidate icon URLs for raw. URLs rejected by the
// safety filter produce an error wrapping urlsafe.ErrNotAllowed.
func Lookup(raw string) (*Candidates, error) {
	raw = strings.TrimSpace(raw)
	if err := urlsafe.Check(raw, false); err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("favicon: %w", err)
	}

	origin := u.Scheme + "://" + u.Host
	host := u.Hostname()
	q := url.QueryEscape(host)

	return &Candidates{
		Favicons: []string{
			origin + "/favicon.ico",
			origin + "/favicon.png",
			origin + "/apple-touch-icon.png",
			"https://www.google.com/s2/favicons?domain=" + q + "&sz=64",
			"https://favicon.im/" + url.PathEscape(host) + "?larger=true",
		},
		Domain: host,
	}, nil
}
