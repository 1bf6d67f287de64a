package webapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// Weather is the current condition report for a location.
type Weather struct {
	Location  string
	Country   string
	TempC     float64
	Condition string
}

// CurrentWeather queries weatherapi.com for q (a city name or "lat,lon").
func (c *Client) CurrentWeather(ctx context.Context, q string) (Weather, error) {
	params := url.Values{}
	params.Set("key", c.keys.weather)
	params.Set("q", q)
	params.Set("aqi", "no")
	body, status, err := c.getBody(ctx, c.endpoints.weather+"/v1/current.json", params)
	if err != nil {
		return Weather{}, err
	}
	if !gjson.ValidBytes(body) {
		return Weather{}, fmt.Errorf("weather: invalid JSON (status %d)", status)
	}
	res := gjson.ParseBytes(body)
	if e := res.Get("error"); e.Exists() {
		return Weather{}, fmt.Errorf("%w: weather %d: %s", ErrServiceStatus, e.Get("code").Int(), e.Get("message").String())
	}
	return Weather{
		Location:  res.Get("location.name").String(),
		Country:   res.Get("location.country").String(),
		TempC:     res.Get("current.temp_c").Float(),
		Condition: res.Get("current.condition.text").String(),
	}, nil
}

// LocateByIP returns the city ipinfo.io associates with the caller's address.
func (c *Client) LocateByIP(ctx context.Context) (string, error) {
	body, status, err := c.getBody(ctx, c.endpoints.ipinfo+"/json", nil)
	if err != nil {
		return "", err
	}
	city := gjson.GetBytes(body, "city").String()
	if city == "" {
		return "", fmt.Errorf("%w: no city for this address (status %d)", ErrNotFound, status)
	}
	return city, nil
}
