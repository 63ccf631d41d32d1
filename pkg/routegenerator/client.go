package routegenerator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

// Client talks to a remote route service over its HTTP wire protocol
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Transport failures are retried, an ERROR answer is not
	MaxRetries uint64

	Cache *ResponseCache
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		MaxRetries: 3,
	}
}

func (c *Client) RouteBetweenTwoBusStops(ctx context.Context, startingBusStop roadgraph.BusStop, endingBusStop roadgraph.BusStop) (*StopPairRoute, error) {
	var route StopPairRoute
	err := c.post(ctx, "/get_route_between_two_bus_stops", TwoBusStopsRequest{
		StartingBusStop: &startingBusStop,
		EndingBusStop:   &endingBusStop,
	}, &route)
	if err != nil {
		return nil, err
	}

	return &route, nil
}

func (c *Client) RouteBetweenMultipleBusStops(ctx context.Context, busStops []roadgraph.BusStop) ([]StopPairRoute, error) {
	var routes []StopPairRoute
	err := c.post(ctx, "/get_route_between_multiple_bus_stops", MultipleBusStopsRequest{BusStops: busStops}, &routes)
	if err != nil {
		return nil, err
	}

	return routes, nil
}

func (c *Client) WaypointsBetweenTwoBusStops(ctx context.Context, startingBusStopName string, endingBusStopName string) (*StopPairWaypoints, error) {
	var waypoints StopPairWaypoints
	err := c.post(ctx, "/get_waypoints_between_two_bus_stops", TwoBusStopNamesRequest{
		StartingBusStopName: startingBusStopName,
		EndingBusStopName:   endingBusStopName,
	}, &waypoints)
	if err != nil {
		return nil, err
	}

	return &waypoints, nil
}

func (c *Client) WaypointsBetweenMultipleBusStops(ctx context.Context, busStopNames []string) ([]StopPairWaypoints, error) {
	var waypoints []StopPairWaypoints
	err := c.post(ctx, "/get_waypoints_between_multiple_bus_stops", MultipleBusStopNamesRequest{BusStopNames: busStopNames}, &waypoints)
	if err != nil {
		return nil, err
	}

	return waypoints, nil
}

func (c *Client) post(ctx context.Context, path string, request interface{}, response interface{}) error {
	body, err := json.Marshal(request)
	if err != nil {
		return err
	}

	key := cacheKey(path, body)
	if c.Cache != nil {
		if cached, found := c.Cache.Get(ctx, key); found {
			return json.Unmarshal([]byte(cached), response)
		}
	}

	var responseBody []byte
	operation := func() error {
		httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpRequest.Header.Set("Content-Type", "application/json")

		httpResponse, err := c.HTTPClient.Do(httpRequest)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("Route service request failed")
			return err
		}
		defer httpResponse.Body.Close()

		responseBody, err = io.ReadAll(httpResponse.Body)
		if err != nil {
			return err
		}

		if httpResponse.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%w: %s returned %d", ErrRouteServiceFailure, path, httpResponse.StatusCode))
		}

		return nil
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries), ctx)
	if err := backoff.Retry(operation, retry); err != nil {
		return err
	}

	if err := json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrRouteServiceFailure, path, err)
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, string(responseBody)); err != nil {
			log.Warn().Err(err).Msg("Failed to cache route service response")
		}
	}

	return nil
}
