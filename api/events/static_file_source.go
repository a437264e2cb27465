package events

import (
	"context"
	"fmt"

	"fiestas-server/api"
	"fiestas-server/models"
	"fiestas-server/util"
)

// StaticFileSource reads the program bundled with the server.
type StaticFileSource struct {
	path string
}

func NewStaticFileSource(path string) *StaticFileSource {
	return &StaticFileSource{path: path}
}

func (s *StaticFileSource) LoadEvents(ctx context.Context) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := util.ReadEventsFromJSON(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrDataSourceUnavailable, err)
	}
	return events, nil
}
