package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"

	"github.com/Black-And-White-Club/fantasy-bot/config"
)

// Streams maps each JetStream stream to the subjects it captures. Topic
// names contain dots, so streams are provisioned per top level prefix rather
// than per topic.
var Streams = map[string][]string{
	"squad":  {"squad.>"},
	"player": {"player.>"},
}

// NewJetStreamBus connects to NATS, makes sure the streams exist and returns
// a bus backed by watermill-nats publishers and durable subscribers.
func NewJetStreamBus(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	options, err := connectionOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	conn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := ensureStreams(conn, logger); err != nil {
		conn.Close()
		return nil, err
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   &nats.NATSMarshaler{},
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				TrackMsgId:    true,
			},
		},
		wmLogger,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:            cfg.URL,
			CloseTimeout:   30 * time.Second,
			AckWaitTimeout: 30 * time.Second,
			NatsOptions:    options,
			Unmarshaler:    &nats.NATSMarshaler{},
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverAll(),
					nc.AckExplicit(),
				},
				DurablePrefix:     cfg.StreamPrefix,
				DurableCalculator: durableName,
			},
		},
		wmLogger,
	)
	if err != nil {
		conn.Close()
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "JetStream event bus ready", slog.String("url", cfg.URL))

	return &bus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		onClose: []func() error{
			func() error { conn.Close(); return nil },
		},
	}, nil
}

// durableName builds a consumer name that is valid on the server, which
// rejects dots.
func durableName(prefix, topic string) string {
	name := strings.NewReplacer(".", "_", "*", "any", ">", "all").Replace(topic)
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

func connectionOptions(cfg config.NATSConfig, logger *slog.Logger) ([]nc.Option, error) {
	options := []nc.Option{
		nc.Name("fantasy-bot"),
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.String("error", err.Error()),
				)
				return
			}
			logger.Error("Error in connection", slog.String("error", err.Error()))
		}),
	}

	if cfg.NKeySeedFile != "" {
		opt, err := nkeyOption(cfg.NKeySeedFile)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// nkeyOption authenticates with the user nkey stored in seedFile. The seed is
// only held by the signing closure.
func nkeyOption(seedFile string) (nc.Option, error) {
	seed, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("read nkey seed: %w", err)
	}
	kp, err := nkeys.FromSeed([]byte(strings.TrimSpace(string(seed))))
	if err != nil {
		return nil, fmt.Errorf("parse nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive nkey public key: %w", err)
	}
	return nc.Nkey(pub, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}), nil
}

func ensureStreams(conn *nc.Conn, logger *slog.Logger) error {
	js, err := conn.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	for name, subjects := range Streams {
		info, err := js.StreamInfo(name)
		if err != nil && !errors.Is(err, nc.ErrStreamNotFound) {
			return fmt.Errorf("failed to get stream info for %s: %w", name, err)
		}
		if info != nil {
			continue
		}
		if _, err := js.AddStream(&nc.StreamConfig{
			Name:      name,
			Subjects:  subjects,
			Retention: nc.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nc.FileStorage,
		}); err != nil {
			return fmt.Errorf("failed to add stream %s: %w", name, err)
		}
		logger.Info("Stream created", slog.String("stream", name), slog.Any("subjects", subjects))
	}
	return nil
}
