package models

import "time"

// StatusChange is published whenever an event moves to a new derived status.
type StatusChange struct {
	EventID string    `json:"event_id"`
	Name    string    `json:"name"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	At      time.Time `json:"at"`
}
