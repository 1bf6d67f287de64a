package webapi

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/tidwall/gjson"
)

// RandomJoke fetches a single-part programming joke from JokeAPI.
func (c *Client) RandomJoke(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("type", "single")
	params.Set("safe-mode", "")
	body, _, err := c.getBody(ctx, c.endpoints.joke+"/joke/Programming", params)
	if err != nil {
		return "", err
	}
	res := gjson.ParseBytes(body)
	if res.Get("error").Bool() {
		return "", fmt.Errorf("%w: joke: %s", ErrServiceStatus, res.Get("message").String())
	}
	joke := res.Get("joke").String()
	if joke == "" {
		return "", fmt.Errorf("%w: empty joke", ErrNotFound)
	}
	return joke, nil
}

var videoIDRE = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)

// ResultsURL is the video search page for query.
func (c *Client) ResultsURL(query string) string {
	return c.endpoints.youtube + "/results?search_query=" + url.QueryEscape(query)
}

// FirstVideo returns the watch URL of the first video in the search results for query.
func (c *Client) FirstVideo(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("search_query", query)
	body, status, err := c.getBody(ctx, c.endpoints.youtube+"/results", params)
	if err != nil {
		return "", err
	}
	if status >= 300 {
		return "", fmt.Errorf("%w: video search status %d", ErrServiceStatus, status)
	}
	m := videoIDRE.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("%w: no video for %q", ErrNotFound, query)
	}
	return c.endpoints.youtube + "/watch?v=" + string(m[1]), nil
}

// SearchURL is the web search page for query.
func (c *Client) SearchURL(query string) string {
	return c.endpoints.search + "?q=" + url.QueryEscape(query)
}
