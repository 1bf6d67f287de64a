package webapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Summary returns the first sentences of the best matching encyclopedia
// article. It returns ErrDisambiguation for disambiguation pages and
// ErrNotFound when the search has no hit.
func (c *Client) Summary(ctx context.Context, topic string, sentences int) (string, error) {
	if sentences <= 0 {
		sentences = 3
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("redirects", "1")
	params.Set("generator", "search")
	params.Set("gsrsearch", topic)
	params.Set("gsrlimit", "1")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exsentences", strconv.Itoa(sentences))
	body, status, err := c.getBody(ctx, c.endpoints.wikipedia+"/w/api.php", params)
	if err != nil {
		return "", err
	}
	res := gjson.ParseBytes(body)
	if e := res.Get("error"); e.Exists() {
		return "", fmt.Errorf("%w: wikipedia: %s", ErrServiceStatus, e.Get("info").String())
	}
	if status >= 300 {
		return "", fmt.Errorf("%w: wikipedia status %d", ErrServiceStatus, status)
	}
	page := res.Get("query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() {
		return "", fmt.Errorf("%w: %q", ErrNotFound, topic)
	}
	if page.Get("pageprops.disambiguation").Exists() {
		return "", fmt.Errorf("%w: %q", ErrDisambiguation, page.Get("title").String())
	}
	extract := strings.TrimSpace(page.Get("extract").String())
	if extract == "" {
		return "", fmt.Errorf("%w: %q has no summary", ErrNotFound, topic)
	}
	return extract, nil
}
