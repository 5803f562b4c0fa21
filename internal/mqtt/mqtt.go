// Package mqtt mirrors dispatched events onto an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"boo-display-backend/config"
	"boo-display-backend/internal/event"
	"boo-display-backend/internal/logger"
)

const (
	eventsQoS      = 1
	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// Client is the part of paho.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Connect dials the broker described by cfg.
func Connect(cfg *config.MQTTConfig) (paho.Client, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.URL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)

	c := paho.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", cfg.URL)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.URL, err)
	}
	return c, nil
}

// Publisher publishes every event to <prefix>/events.
type Publisher struct {
	client Client
	topic  string
	log    *logger.Logger

	inflight sync.WaitGroup
}

// NewPublisher creates a Publisher over an already connected client.
func NewPublisher(client Client, prefix string, log *logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		topic:  prefix + "/events",
		log:    log,
	}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string { return p.topic }

// Notify implements notification.Notifier. The publish is acknowledged in the
// background.
func (p *Publisher) Notify(ev event.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Errorw("failed to marshal event for mqtt", "event", ev.Type, "err", err)
		return
	}

	tok := p.client.Publish(p.topic, eventsQoS, false, data)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		if !tok.WaitTimeout(publishTimeout) {
			p.log.Warnw("mqtt publish timed out", "topic", p.topic, "event", ev.Type)
			return
		}
		if err := tok.Error(); err != nil {
			p.log.Warnw("mqtt publish failed", "topic", p.topic, "event", ev.Type, "err", err)
			return
		}
		p.log.Debugw("published event", "topic", p.topic, "event", ev.Type)
	}()
}

// Wait blocks until every publish has been acknowledged or has failed, or
// ctx is done.
func (p *Publisher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
