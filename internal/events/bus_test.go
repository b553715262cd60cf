// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
)

func receive(t *testing.T, msgs <-chan *message.Message) *Event {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		ev, err := Unmarshal(msg.Payload)
		if err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestChannelBusDelivers(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(config.EventsConfig{Backend: BackendChannel, BufferSize: 16}, nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := NewEvent(TypeItemDismissed, "p1")
	sent.ItemID = "42"
	if err := bus.Publish(ctx, sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := receive(t, msgs)
	if got.ID != sent.ID || got.Type != TypeItemDismissed || got.ItemID != "42" {
		t.Errorf("received %+v, want %+v", got, sent)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(config.EventsConfig{Backend: BackendChannel}, nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err = bus.Publish(context.Background(), NewEvent(TypeProfileReset, "p1"))
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish() error = %v, want ErrBusClosed", err)
	}
}

func TestBusRejectsInvalidEvent(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(config.EventsConfig{Backend: BackendChannel}, nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer bus.Close()

	if err := bus.Publish(context.Background(), &Event{}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish() error = %v, want ErrInvalidEvent", err)
	}
}

func TestNewBusUnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewBus(config.EventsConfig{Backend: "kafka"}, nil); err == nil {
		t.Error("NewBus() accepted an unknown backend")
	}
}

func TestEmbeddedNATSBus(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a NATS server")
	}

	bus, err := NewBus(config.EventsConfig{
		Backend:      BackendNATS,
		EmbeddedNATS: true,
		NATSHost:     "127.0.0.1",
		NATSPort:     -1,
	}, nil)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	defer bus.Close()

	if bus.Backend() != BackendNATS {
		t.Errorf("Backend() = %q, want %q", bus.Backend(), BackendNATS)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// The subscription is registered asynchronously on the broker, so
	// keep publishing until the first event arrives.
	sent := NewEvent(TypeItemSeen, "p1")
	deadline := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := bus.Publish(ctx, sent); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case msg := <-msgs:
			msg.Ack()
			got, err := Unmarshal(msg.Payload)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got.ID != sent.ID {
				t.Errorf("received event %s, want %s", got.ID, sent.ID)
			}
			return
		case <-ticker.C:
		case <-deadline:
			t.Fatal("timed out waiting for NATS delivery")
		}
	}
}
