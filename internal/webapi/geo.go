package webapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// Coordinates is a geocoded position.
type Coordinates struct {
	Lat, Lon float64
	Name     string
}

// Geocode resolves place to coordinates through geocode.maps.co.
// An empty result set is ErrNotFound.
func (c *Client) Geocode(ctx context.Context, place string) (Coordinates, error) {
	params := url.Values{}
	params.Set("q", place)
	if c.keys.geocode != "" {
		params.Set("api_key", c.keys.geocode)
	}
	body, status, err := c.getBody(ctx, c.endpoints.geocode+"/search", params)
	if err != nil {
		return Coordinates{}, err
	}
	if status >= 300 {
		return Coordinates{}, fmt.Errorf("%w: geocode status %d", ErrServiceStatus, status)
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return Coordinates{}, fmt.Errorf("geocode: unexpected payload")
	}
	first := res.Get("0")
	if !first.Exists() {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrNotFound, place)
	}
	return Coordinates{
		Lat:  first.Get("lat").Float(),
		Lon:  first.Get("lon").Float(),
		Name: first.Get("display_name").String(),
	}, nil
}

// LocalTime is the wall clock at a position.
type LocalTime struct {
	// Time carries the remote wall clock digits; its Location is not meaningful.
	Time time.Time
	Zone string
}

const timezoneLayout = "2006-01-02 15:04:05"

// TimeAt asks timezonedb for the local time at lat/lon.
func (c *Client) TimeAt(ctx context.Context, lat, lon float64) (LocalTime, error) {
	params := url.Values{}
	params.Set("key", c.keys.timezone)
	params.Set("format", "json")
	params.Set("by", "position")
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lng", fmt.Sprintf("%f", lon))
	body, _, err := c.getBody(ctx, c.endpoints.timezone+"/v2.1/get-time-zone", params)
	if err != nil {
		return LocalTime{}, err
	}
	res := gjson.ParseBytes(body)
	if st := res.Get("status").String(); st != "OK" {
		return LocalTime{}, fmt.Errorf("%w: timezone status %q: %s", ErrServiceStatus, st, res.Get("message").String())
	}
	t, err := time.Parse(timezoneLayout, res.Get("formatted").String())
	if err != nil {
		return LocalTime{}, fmt.Errorf("timezone: parse formatted time: %w", err)
	}
	return LocalTime{Time: t, Zone: res.Get("zoneName").String()}, nil
}
