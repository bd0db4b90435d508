package mqttfeed

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

var errTestBroker = errors.New("broker refused")

// fakeMessage is an inbound MQTT message.
type fakeMessage struct {
	mqtt.Message

	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeToken completes immediately with err, or never when stuck is set.
type fakeToken struct {
	mqtt.Token

	err   error
	stuck bool
}

func (t fakeToken) Wait() bool { return !t.stuck }

func (t fakeToken) WaitTimeout(time.Duration) bool { return !t.stuck }

func (t fakeToken) Error() error { return t.err }

// fakeClient records subscriptions and publications.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	handlers     map[string]mqtt.MessageHandler
	unsubscribed []string
	published    map[string][]byte
	token        fakeToken
	// rejected fails the subscription to this topic with errTestBroker.
	rejected string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		handlers:  make(map[string]mqtt.MessageHandler),
		published: make(map[string][]byte),
	}
}

func (c *fakeClient) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if topic == c.rejected {
		return fakeToken{err: errTestBroker}
	}

	c.handlers[topic] = handler

	return c.token
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unsubscribed = append(c.unsubscribed, topics...)

	return c.token
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload any) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, _ := payload.([]byte)
	c.published[topic] = data

	return c.token
}

func (c *fakeClient) deliver(topic string, payload []byte) {
	c.mu.Lock()
	handler := c.handlers[topic]
	c.mu.Unlock()

	handler(c, fakeMessage{topic: topic, payload: payload})
}

// fakeSink records what the handlers forwarded.
type fakeSink struct {
	samples      []orientation.TiltSample
	orientations []string
}

func (s *fakeSink) EmitTilt(sample orientation.TiltSample) {
	s.samples = append(s.samples, sample)
}

func (s *fakeSink) ReportOrientation(orientationType string) {
	s.orientations = append(s.orientations, orientationType)
}

// TestSubscribe_RoutesIntoSink checks decoding and routing of both topics.
func TestSubscribe_RoutesIntoSink(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	sink := new(fakeSink)

	unsubscribe, err := Subscribe(t.Context(), client, sink, "tilt", "orientation", time.Second)
	require.NoError(t, err)

	client.deliver("tilt", []byte(`{"beta":10,"gamma":80}`))
	client.deliver("tilt", []byte(`not json`))
	client.deliver("orientation", []byte(" landscape-primary\n"))
	client.deliver("orientation", []byte("  "))

	require.Equal(t, []orientation.TiltSample{{Beta: 10, Gamma: 80}}, sink.samples)
	require.Equal(t, []string{"landscape-primary"}, sink.orientations)

	unsubscribe()
	require.ElementsMatch(t, []string{"tilt", "orientation"}, client.unsubscribed)
}

// TestSubscribe_SkipsEmptyTopics subscribes only to configured topics.
func TestSubscribe_SkipsEmptyTopics(t *testing.T) {
	t.Parallel()

	client := newFakeClient()

	unsubscribe, err := Subscribe(t.Context(), client, new(fakeSink), "", "orientation", time.Second)
	require.NoError(t, err)
	require.Len(t, client.handlers, 1)

	unsubscribe()
	require.Equal(t, []string{"orientation"}, client.unsubscribed)
}

// TestSubscribe_Errors surfaces broker errors and timeouts.
func TestSubscribe_Errors(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.token = fakeToken{err: errTestBroker}

	_, err := Subscribe(t.Context(), client, new(fakeSink), "tilt", "", time.Second)
	require.ErrorIs(t, err, errTestBroker)

	client.token = fakeToken{stuck: true}

	_, err = Subscribe(t.Context(), client, new(fakeSink), "tilt", "", time.Second)
	require.ErrorIs(t, err, ErrTimeout)
}

// TestSubscribe_ReleasesEarlierTopicsOnError unsubscribes the tilt topic when
// the orientation subscription fails.
func TestSubscribe_ReleasesEarlierTopicsOnError(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.rejected = "orientation"

	unsubscribe, err := Subscribe(t.Context(), client, new(fakeSink), "tilt", "orientation", time.Second)
	require.ErrorIs(t, err, errTestBroker)
	require.Nil(t, unsubscribe)
	require.Equal(t, []string{"tilt"}, client.unsubscribed)

	client.rejected = "tilt"
	client.unsubscribed = nil

	_, err = Subscribe(t.Context(), client, new(fakeSink), "tilt", "orientation", time.Second)
	require.ErrorIs(t, err, errTestBroker)
	require.Empty(t, client.unsubscribed)
}

// TestPublisher_Publish marshals documents as JSON.
func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	p := NewPublisher(client, 0)

	require.NoError(t, p.Publish("tilt", orientation.TiltSample{Beta: 1.5, Gamma: -2}))

	var got orientation.TiltSample
	require.NoError(t, json.Unmarshal(client.published["tilt"], &got))
	require.Equal(t, orientation.TiltSample{Beta: 1.5, Gamma: -2}, got)

	require.Error(t, p.Publish("bad", func() {}))

	client.token = fakeToken{err: errTestBroker}
	require.ErrorIs(t, p.Publish("tilt", got), errTestBroker)
}
