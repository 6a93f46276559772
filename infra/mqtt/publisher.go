// Package mqtt streams rollout events to an MQTT broker so external
// consumers (dashboards, recorders) can follow a run live.
package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/elecmarket/core/logger"
	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	infralogger "github.com/kilianp07/elecmarket/infra/logger"
)

// Config defines the connection parameters for the step publisher.
type Config struct {
	Enabled      bool   `json:"enabled"`
	Broker       string `json:"broker"`
	ClientID     string `json:"client_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	StepTopic    string `json:"step_topic"`
	EpisodeTopic string `json:"episode_topic"`
	QoS          byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "elecmarket"
	}
	if c.StepTopic == "" {
		c.StepTopic = "elecmarket/steps"
	}
	if c.EpisodeTopic == "" {
		c.EpisodeTopic = "elecmarket/episodes"
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.QoS)
	}
	return nil
}

// pahoClient is the subset of the Paho client the publisher needs;
// it exists as a test seam.
type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher implements the metrics Sink by publishing events as JSON.
type Publisher struct {
	cli          pahoClient
	stepTopic    string
	episodeTopic string
	qos          byte
	log          logger.Logger
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	log := infralogger.New("mqtt-publisher")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{
		cli:          cli,
		stepTopic:    cfg.StepTopic,
		episodeTopic: cfg.EpisodeTopic,
		qos:          cfg.QoS,
		log:          log,
	}, nil
}

// RecordStep publishes the transition on the step topic.
func (p *Publisher) RecordStep(ev coremetrics.StepEvent) error {
	return p.publish(p.stepTopic, ev)
}

// RecordEpisode publishes the summary on the episode topic.
func (p *Publisher) RecordEpisode(ev coremetrics.EpisodeEvent) error {
	return p.publish(p.episodeTopic, ev)
}

func (p *Publisher) publish(topic string, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if token := p.cli.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(250)
}
