// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
)

// Supported transports.
const (
	BackendChannel = "channel"
	BackendNATS    = "nats"
)

const (
	breakerName        = "event-bus"
	breakerFailures    = 5
	breakerOpenTimeout = 30 * time.Second
	natsMaxReconnects  = 10
	natsReconnectWait  = 2 * time.Second
	natsCloseTimeout   = 10 * time.Second
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Publisher is the publishing side of the bus.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Bus publishes and subscribes to profile events over one transport.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	breaker    *gobreaker.CircuitBreaker[interface{}]
	server     *EmbeddedServer
	backend    string
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus builds the transport selected by cfg.Backend. With the nats
// backend and EmbeddedNATS set, a broker is started first and the bus
// connects to it instead of cfg.NATSURL.
func NewBus(cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	b := &Bus{
		backend: cfg.Backend,
		logger:  logger,
		breaker: newBreaker(logger),
	}

	switch cfg.Backend {
	case BackendChannel, "":
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		b.backend = BackendChannel
		b.publisher = ch
		b.subscriber = ch
	case BackendNATS:
		url := cfg.NATSURL
		if cfg.EmbeddedNATS {
			srv, err := NewEmbeddedServer(cfg.NATSHost, cfg.NATSPort)
			if err != nil {
				return nil, err
			}
			b.server = srv
			url = srv.ClientURL()
		}
		if err := b.connectNATS(url); err != nil {
			b.shutdownServer()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown event backend %q", cfg.Backend)
	}

	logger.Info("Event bus started", watermill.LogFields{
		"backend":  b.backend,
		"embedded": b.server != nil,
	})
	return b, nil
}

func (b *Bus) connectNATS(url string) error {
	logger := b.logger
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(natsMaxReconnects),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	// Profile events are live notifications, so core NATS is enough.
	jsConfig := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jsConfig,
	}, logger)
	if err != nil {
		return fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     natsCloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jsConfig,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return fmt.Errorf("create NATS subscriber: %w", err)
	}

	b.publisher = pub
	b.subscriber = sub
	return nil
}

func newBreaker(logger watermill.LoggerAdapter) *gobreaker.CircuitBreaker[interface{}] {
	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, breakerStateValue(to))
			logger.Info("Circuit breaker state changed", watermill.LogFields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Backend returns the active transport name.
func (b *Bus) Backend() string {
	return b.backend
}

// Publish encodes the event and sends it on Topic through the breaker.
func (b *Bus) Publish(ctx context.Context, event *Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	data, err := Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.ID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set(natsgo.MsgIdHdr, event.ID)
	msg.Metadata.Set("type", string(event.Type))

	_, err = b.breaker.Execute(func() (interface{}, error) {
		return nil, b.publisher.Publish(Topic, msg)
	})
	metrics.RecordEventPublish(Topic, err)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

// Subscribe returns the raw message stream for Topic. Messages must be
// acked or nacked by the caller.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, Topic)
}

// Close shuts the transport down and stops an embedded broker.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// GoChannel serves both sides.
	if b.backend != BackendChannel {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	b.shutdownServer()
	return errors.Join(errs...)
}

func (b *Bus) shutdownServer() {
	if b.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), natsCloseTimeout)
	defer cancel()
	if err := b.server.Shutdown(ctx); err != nil {
		b.logger.Error("Embedded NATS shutdown", err, nil)
	}
}
