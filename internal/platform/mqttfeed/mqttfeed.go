package mqttfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform"
)

const (
	// DefaultConnectTimeout bounds the initial broker connection.
	DefaultConnectTimeout = 5 * time.Second
	// disconnectQuiesce is how long Disconnect waits for in-flight work, in milliseconds.
	disconnectQuiesce = 250
	// qos is used for every subscription and publication; lost samples are harmless.
	qos = 0
)

// ErrTimeout is returned when the broker does not answer in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Options configures Connect.
type Options struct {
	// Broker is the broker URL, e.g. tcp://127.0.0.1:1883.
	Broker string
	// ClientID identifies this connection to the broker.
	ClientID string
	// Timeout bounds connect, subscribe and publish calls.
	Timeout time.Duration
}

// Connect opens an auto-reconnecting connection to the broker.
func Connect(ctx context.Context, opts Options) (mqtt.Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultConnectTimeout
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetConnectTimeout(opts.Timeout).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WarnKV(ctx, "MQTT connection lost", "broker", opts.Broker, "error", err)
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.InfoKV(ctx, "MQTT connected", "broker", opts.Broker, "client_id", opts.ClientID)
		})

	client := mqtt.NewClient(clientOpts)
	if err := wait(client.Connect(), opts.Timeout); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.Broker, err)
	}

	return client, nil
}

// Disconnect closes the connection after letting in-flight work finish.
func Disconnect(client mqtt.Client) {
	client.Disconnect(disconnectQuiesce)
}

// Subscribe routes the tilt and orientation topics into sink. An empty
// topic is skipped. The returned function unsubscribes both. When a
// subscription fails, the topics already subscribed are released.
func Subscribe(
	ctx context.Context,
	client mqtt.Client,
	sink platform.Sink,
	tiltTopic, orientationTopic string,
	timeout time.Duration,
) (func(), error) {
	type route struct {
		topic   string
		handler mqtt.MessageHandler
	}

	routes := make([]route, 0, 2)
	if tiltTopic != "" {
		routes = append(routes, route{topic: tiltTopic, handler: TiltHandler(ctx, sink)})
	}

	if orientationTopic != "" {
		routes = append(routes, route{topic: orientationTopic, handler: OrientationHandler(ctx, sink)})
	}

	topics := make([]string, 0, len(routes))

	for _, r := range routes {
		if err := wait(client.Subscribe(r.topic, qos, r.handler), timeout); err != nil {
			if len(topics) > 0 {
				if uerr := wait(client.Unsubscribe(topics...), timeout); uerr != nil {
					logger.WarnKV(ctx, "MQTT unsubscribe failed", "topics", topics, "error", uerr)
				}
			}

			return nil, fmt.Errorf("subscribe %s: %w", r.topic, err)
		}

		topics = append(topics, r.topic)
		logger.InfoKV(ctx, "Subscribed to MQTT topic", "topic", r.topic)
	}

	return func() {
		if len(topics) == 0 {
			return
		}

		if err := wait(client.Unsubscribe(topics...), timeout); err != nil {
			logger.WarnKV(ctx, "MQTT unsubscribe failed", "topics", topics, "error", err)
		}
	}, nil
}

// TiltHandler decodes JSON tilt samples and emits them into sink.
func TiltHandler(ctx context.Context, sink platform.Sink) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var sample orientation.TiltSample
		if err := json.Unmarshal(msg.Payload(), &sample); err != nil {
			logger.WarnKV(ctx, "Dropping malformed tilt sample", "topic", msg.Topic(), "error", err)

			return
		}

		sink.EmitTilt(sample)
	}
}

// OrientationHandler forwards plain-text orientation types into sink.
func OrientationHandler(ctx context.Context, sink platform.Sink) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		orientationType := strings.TrimSpace(string(msg.Payload()))
		if orientationType == "" {
			logger.WarnKV(ctx, "Dropping empty orientation report", "topic", msg.Topic())

			return
		}

		sink.ReportOrientation(orientationType)
	}
}

// Publisher publishes JSON documents.
type Publisher struct {
	client  mqtt.Client
	timeout time.Duration
}

// NewPublisher wraps client.
func NewPublisher(client mqtt.Client, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	return &Publisher{client: client, timeout: timeout}
}

// Publish marshals v and publishes it on topic.
func (p *Publisher) Publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %T: %w", v, err)
	}

	if err := wait(p.client.Publish(topic, qos, false, payload), p.timeout); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	return nil
}

func wait(token mqtt.Token, timeout time.Duration) error {
	if timeout > 0 && !token.WaitTimeout(timeout) {
		return ErrTimeout
	}

	if timeout <= 0 {
		token.Wait()
	}

	return token.Error()
}
