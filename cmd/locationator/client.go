package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/locationator/locationator/internal/geo"
)

// client talks to a running Locationator daemon.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// ping probes the daemon banner, retrying briefly with exponential
// backoff so the CLI tolerates a daemon that is still starting up.
func (c *client) ping(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Second

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d from daemon", resp.StatusCode))
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}

// reverseGeocode looks up the placemark for a coordinate and returns the
// raw JSON body so output formatting is left to the caller.
func (c *client) reverseGeocode(ctx context.Context, coord geo.Coordinate) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	return c.get(ctx, "/reverse_geocode?"+query.Encode())
}

// currentLocation fetches the device's current location. accuracy and
// timeout are optional; zero values omit the parameter.
func (c *client) currentLocation(ctx context.Context, accuracy geo.Accuracy, timeout time.Duration) (json.RawMessage, error) {
	query := url.Values{}
	if accuracy != "" {
		query.Set("accuracy", string(accuracy))
	}
	if timeout > 0 {
		query.Set("timeout", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64))
	}
	path := "/current_location"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.get(ctx, path)
}

func (c *client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%d %s", resp.StatusCode, string(body))
	}
	return json.RawMessage(body), nil
}
