// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package webdav

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

const propfindBody = `<?xml version="1.0" encoding="utf-8"?>` +
	`<propfind xmlns="DAV:"><prop>` +
	`<resourcetype/><getlastmodified/><getcontentlength/>` +
	`</prop></propfind>`

// Entry is one resource listed by PROPFIND.
type Entry struct {
	Href          string    `json:"href"`
	Name          string    `json:"name"`
	LastModified  time.Time `json:"lastModified,omitzero"`
	ContentLength int64     `json:"contentLength"`
	IsCollection  bool      `json:"isCollection"`
}

type multistatus struct {
	Responses []davResponse `xml:"DAV: response"`
}

type davResponse struct {
	Href     string        `xml:"DAV: href"`
	Propstat []davPropstat `xml:"DAV: propstat"`
}

type davPropstat struct {
	Status string  `xml:"DAV: status"`
	Prop   davProp `xml:"DAV: prop"`
}

type davProp struct {
	ResourceType struct {
		Collection *struct{} `xml:"DAV: collection"`
	} `xml:"DAV: resourcetype"`
	LastModified  string `xml:"DAV: getlastmodified"`
	ContentLength string `xml:"DAV: getcontentlength"`
}

// Propfind lists url with the given depth ("0" or "1"). The parsed entries
// are only filled in on a 207 Multi-Status reply.
func (c *Client) Propfind(ctx context.Context, url string, cred Credentials, depth string) (*Response, []Entry, error) {
	h := http.Header{}
	h.Set("Depth", depth)
	h.Set("Content-Type", "application/xml")

	resp, err := c.Do(ctx, Request{
		Method:   "PROPFIND",
		URL:      url,
		Username: cred.Username,
		Password: cred.Password,
		Body:     []byte(propfindBody),
		Header:   h,
	})
	if err != nil {
		return nil, nil, err
	}
	if resp.Status != http.StatusMultiStatus {
		return resp, nil, nil
	}

	entries, err := ParseMultistatus(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, entries, nil
}

// ParseMultistatus decodes a PROPFIND reply body.
func ParseMultistatus(body []byte) ([]Entry, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("webdav multistatus: %w", err)
	}

	entries := make([]Entry, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		e := Entry{Href: r.Href, Name: hrefName(r.Href)}
		for _, ps := range r.Propstat {
			if ps.Status != "" && !strings.Contains(ps.Status, " 200") {
				continue
			}
			p := ps.Prop
			if p.ResourceType.Collection != nil {
				e.IsCollection = true
			}
			if p.LastModified != "" {
				if t, err := http.ParseTime(p.LastModified); err == nil {
					e.LastModified = t.UTC()
				}
			}
			if p.ContentLength != "" {
				if n, err := strconv.ParseInt(strings.TrimSpace(p.ContentLength), 10, 64); err == nil {
					e.ContentLength = n
				}
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func hrefName(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	if un, err := url.PathUnescape(p); err == nil {
		p = un
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
