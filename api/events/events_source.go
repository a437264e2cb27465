package events

import (
	"context"

	"fiestas-server/models"
)

// EventSource loads the full festival program.
type EventSource interface {
	LoadEvents(ctx context.Context) ([]models.Event, error)
}
