package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"fiestas-server/models"
)

// ReadEventsFromJSON loads the festival program from JSON on disk.
func ReadEventsFromJSON(filePath string) ([]models.Event, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return DecodeEvents(data)
}

// DecodeEvents parses a JSON array of events.
func DecodeEvents(data []byte) ([]models.Event, error) {
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}

// PrintEventsPartially logs the first few events, for quick inspection at startup.
func PrintEventsPartially(events []models.Event, limit int) {
	log.Printf("[Util] %d events loaded", len(events))
	for i, ev := range events {
		if i >= limit {
			log.Printf("[Util] ... %d more", len(events)-limit)
			return
		}
		log.Printf("[Util] %s", ev.ToString())
	}
}
