package events

import (
	"context"
	"fmt"

	"fiestas-server/api"
	"fiestas-server/models"
)

const EVENTS_ENDPOINT = "/events.json"

// RemoteEventsClient fetches the program document over HTTP.
type RemoteEventsClient struct {
	*api.HTTPClient
}

func NewRemoteEventsClient(httpClient *api.HTTPClient) *RemoteEventsClient {
	return &RemoteEventsClient{
		HTTPClient: httpClient,
	}
}

func (c *RemoteEventsClient) LoadEvents(ctx context.Context) ([]models.Event, error) {
	var response []models.Event
	if err := c.Request(ctx, "GET", EVENTS_ENDPOINT, nil, nil, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrDataSourceUnavailable, err)
	}
	return response, nil
}
