// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic is the subject every profile event is published on.
const Topic = "recosys.profile"

// SchemaVersion is bumped on breaking changes to Event.
const SchemaVersion = 1

// Type names the kind of profile change an event describes.
type Type string

const (
	TypeClickRecorded Type = "click_recorded"
	TypeItemSeen      Type = "item_seen"
	TypeItemDismissed Type = "item_dismissed"
	TypeProfileReset  Type = "profile_reset"
)

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeClickRecorded, TypeItemSeen, TypeItemDismissed, TypeProfileReset:
		return true
	}
	return false
}

// ErrInvalidEvent is returned when an event fails validation.
var ErrInvalidEvent = errors.New("invalid event")

// Event is a single change on one profile.
type Event struct {
	SchemaVersion int       `json:"schema_version"`
	ID            string    `json:"event_id"`
	Type          Type      `json:"type"`
	Profile       string    `json:"profile"`
	Site          string    `json:"site,omitempty"`
	Category      string    `json:"category,omitempty"`
	ItemID        string    `json:"item_id,omitempty"`
	Evicted       int       `json:"evicted,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewEvent creates an event of the given type for profile with a fresh id.
func NewEvent(t Type, profile string) *Event {
	return &Event{
		SchemaVersion: SchemaVersion,
		ID:            uuid.New().String(),
		Type:          t,
		Profile:       profile,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate checks the fields every consumer relies on.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if e.Profile == "" {
		return fmt.Errorf("%w: missing profile", ErrInvalidEvent)
	}
	return nil
}

// Marshal validates and encodes the event.
func Marshal(e *Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates an event.
func Unmarshal(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
