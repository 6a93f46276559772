package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
)

type fakeToken struct{}

func (fakeToken) Wait() bool                     { return true }
func (fakeToken) WaitTimeout(time.Duration) bool { return true }
func (fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (fakeToken) Error() error { return nil }

type fakeClient struct {
	published map[string][]byte
}

func (f *fakeClient) Connect() paho.Token { return fakeToken{} }
func (f *fakeClient) Disconnect(uint)     {}
func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	if f.published == nil {
		f.published = make(map[string][]byte)
	}
	f.published[topic] = payload.([]byte)
	return fakeToken{}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Equal(t, "elecmarket", cfg.ClientID)
	assert.Equal(t, "elecmarket/steps", cfg.StepTopic)
	assert.NoError(t, cfg.Validate())

	enabled := Config{Enabled: true}
	assert.Error(t, enabled.Validate(), "broker required when enabled")

	enabled.Broker = "tcp://localhost:1883"
	enabled.QoS = 3
	assert.Error(t, enabled.Validate())
	enabled.QoS = 1
	assert.NoError(t, enabled.Validate())
}

func TestPublisherPublishesJSON(t *testing.T) {
	fake := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	defer func() { newMQTTClient = orig }()

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.RecordStep(coremetrics.StepEvent{RunID: "r", Reward: -6}))
	require.NoError(t, pub.RecordEpisode(coremetrics.EpisodeEvent{RunID: "r", Return: 12}))

	var step coremetrics.StepEvent
	require.NoError(t, json.Unmarshal(fake.published["elecmarket/steps"], &step))
	assert.Equal(t, "r", step.RunID)
	assert.InDelta(t, -6, step.Reward, 1e-9)

	var ep coremetrics.EpisodeEvent
	require.NoError(t, json.Unmarshal(fake.published["elecmarket/episodes"], &ep))
	assert.InDelta(t, 12, ep.Return, 1e-9)
}
