// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package events

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
)

// Subscriber is the consuming side of the bus.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Broadcaster delivers a typed payload to everyone watching a profile.
type Broadcaster interface {
	BroadcastToProfile(profile, msgType string, data interface{})
}

// Relay forwards bus events to a Broadcaster. It implements the
// suture.Service contract.
type Relay struct {
	source    Subscriber
	target    Broadcaster
	logger    zerolog.Logger
	forwarded atomic.Int64
	dropped   atomic.Int64
}

// NewRelay creates a relay from source to target.
func NewRelay(source Subscriber, target Broadcaster) *Relay {
	return &Relay{
		source: source,
		target: target,
		logger: logging.WithComponent("event-relay"),
	}
}

// Serve consumes events until ctx is canceled or the stream closes.
func (r *Relay) Serve(ctx context.Context) error {
	msgs, err := r.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", Topic, err)
	}

	r.logger.Info().Str("topic", Topic).Msg("Event relay started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().
				Int64("forwarded", r.forwarded.Load()).
				Int64("dropped", r.dropped.Load()).
				Msg("Event relay stopped")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("%s subscription closed", Topic)
			}
			r.handle(msg)
		}
	}
}

func (r *Relay) handle(msg *message.Message) {
	// A malformed payload will never decode, so it is acked and dropped.
	defer msg.Ack()

	ev, err := Unmarshal(msg.Payload)
	if err != nil {
		r.dropped.Add(1)
		r.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping undecodable event")
		return
	}

	r.target.BroadcastToProfile(ev.Profile, string(ev.Type), ev)
	r.forwarded.Add(1)
}

// Forwarded returns how many events reached the broadcaster.
func (r *Relay) Forwarded() int64 {
	return r.forwarded.Load()
}

// Dropped returns how many messages could not be decoded.
func (r *Relay) Dropped() int64 {
	return r.dropped.Load()
}

// String names the service in supervisor logs.
func (r *Relay) String() string {
	return "event-relay"
}
