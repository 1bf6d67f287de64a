// Package webapi talks to the public HTTP services behind each command.
package webapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alexabot/internal/config"

	"golang.org/x/net/proxy"
)

var (
	// ErrNotFound means the service answered but had nothing for the query.
	ErrNotFound = errors.New("not found")
	// ErrServiceStatus means the service reported a failure in its payload.
	ErrServiceStatus = errors.New("service error")
	// ErrDisambiguation means the topic resolved to a disambiguation page.
	ErrDisambiguation = errors.New("ambiguous topic")
)

const maxBody = 4 << 20

// Client bundles the endpoints and keys of every service.
type Client struct {
	http      *http.Client
	endpoints endpoints
	keys      keys
	userAgent string
}

type endpoints struct {
	weather, geocode, timezone, ipinfo, wikipedia, joke, youtube, search string
}

type keys struct {
	weather, timezone, geocode string
}

// New builds a Client from cfg. hc may be nil, in which case one is created
// from the http section (timeout and optional SOCKS5 proxy).
func New(cfg *config.Config, hc *http.Client) (*Client, error) {
	if hc == nil {
		var err error
		hc, err = NewHTTPClient(time.Duration(cfg.HTTP.TimeoutSec*float64(time.Second)), cfg.HTTP.Proxy)
		if err != nil {
			return nil, err
		}
	}
	e := cfg.Endpoints
	return &Client{
		http: hc,
		endpoints: endpoints{
			weather:   strings.TrimRight(e.Weather, "/"),
			geocode:   strings.TrimRight(e.Geocode, "/"),
			timezone:  strings.TrimRight(e.Timezone, "/"),
			ipinfo:    strings.TrimRight(e.IPInfo, "/"),
			wikipedia: strings.TrimRight(e.Wikipedia, "/"),
			joke:      strings.TrimRight(e.Joke, "/"),
			youtube:   strings.TrimRight(e.YouTube, "/"),
			search:    e.Search,
		},
		keys: keys{
			weather:  cfg.Keys.Weather,
			timezone: cfg.Keys.Timezone,
			geocode:  cfg.Keys.Geocode,
		},
		userAgent: cfg.HTTP.UserAgent,
	}, nil
}

// NewHTTPClient returns a client with timeout, dialing through socksAddr when set.
func NewHTTPClient(timeout time.Duration, socksAddr string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if socksAddr == "" {
		return &http.Client{Timeout: timeout}, nil
	}
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks proxy %s: %w", socksAddr, err)
	}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// getBody performs a GET and returns the body regardless of status code;
// several services put their error details in a non-2xx JSON body.
func (c *Client) getBody(ctx context.Context, base string, params url.Values) ([]byte, int, error) {
	u := base
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", base, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", base, err)
	}
	return body, resp.StatusCode, nil
}
