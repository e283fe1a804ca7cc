// Package eventbus provides the publisher/subscriber pair the watermill
// routers run on: NATS JetStream in production and an in-memory channel in
// tests.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
)

// EventBus is a watermill publisher and subscriber.
//
// Publish accepts an empty topic, in which case each message is routed by its
// "topic" metadata. Routers register handlers with an empty publish topic and
// let the handler decide where each result goes.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	onClose    []func() error
}

var _ EventBus = (*bus)(nil)

func (b *bus) Publish(topic string, msgs ...*message.Message) error {
	if topic != "" {
		return b.publisher.Publish(topic, msgs...)
	}
	for _, msg := range msgs {
		t := msg.Metadata.Get(handlerwrapper.TopicMetadataKey)
		if t == "" {
			return fmt.Errorf("message %s has no topic metadata", msg.UUID)
		}
		if err := b.publisher.Publish(t, msg); err != nil {
			return fmt.Errorf("publish to %s: %w", t, err)
		}
	}
	return nil
}

func (b *bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

func (b *bus) Close() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// GoChannel is both ends and tolerates a second Close.
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	for _, fn := range b.onClose {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewGoChannelBus returns an in-memory bus. Messages are delivered to
// subscribers present at publish time only.
func NewGoChannelBus(logger *slog.Logger) EventBus {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
	return &bus{publisher: ch, subscriber: ch, logger: logger}
}
