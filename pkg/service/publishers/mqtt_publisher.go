// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.

// Package publishers mirrors launcher notifications to external systems.
package publishers

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const disconnectQuiesce = 250

// Message is the payload published for each notification.
type Message struct {
	Params json.RawMessage `json:"params,omitempty"`
	Method string          `json:"method"`
}

type ClientFactory func(opts *mqtt.ClientOptions) mqtt.Client

type MQTTPublisher struct {
	client    mqtt.Client
	newClient ClientFactory
	stopCh    chan struct{}
	stopOnce  sync.Once
	broker    string
	topic     string
	filter    []string
	wg        sync.WaitGroup
}

// NewMQTTPublisher creates a publisher for one configured broker. An empty
// filter publishes every notification.
func NewMQTTPublisher(cfg config.MQTTPublisher, newClient ClientFactory) *MQTTPublisher {
	if newClient == nil {
		newClient = mqtt.NewClient
	}
	return &MQTTPublisher{
		broker:    cfg.Broker,
		topic:     cfg.Topic,
		filter:    cfg.Filter,
		newClient: newClient,
		stopCh:    make(chan struct{}),
	}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Start connects to the broker and publishes notifications read from
// notifs until Stop is called or the channel closes.
func (p *MQTTPublisher) Start(notifs <-chan models.Notification) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(p.broker))
	opts.SetClientID("zaparoo-launcher-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(_ mqtt.Client) {
		log.Info().Msgf("mqtt publisher: connected to %s", p.broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt publisher: connection lost")
	}

	p.client = p.newClient(opts)
	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	p.wg.Add(1)
	go p.publishLoop(notifs)
	return nil
}

// Stop ends the publish loop and disconnects. Safe to call more than once.
func (p *MQTTPublisher) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()

	if p.client != nil && p.client.IsConnected() {
		log.Debug().Str("broker", p.broker).Msg("mqtt publisher: disconnecting")
		p.client.Disconnect(disconnectQuiesce)
	}
}

func (p *MQTTPublisher) publishLoop(notifs <-chan models.Notification) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case notif, ok := <-notifs:
			if !ok {
				log.Debug().Msg("mqtt publisher: notification channel closed")
				return
			}
			if !p.matchesFilter(notif.Method) {
				continue
			}
			p.publish(notif)
		}
	}
}

func (p *MQTTPublisher) publish(notif models.Notification) {
	payload, err := json.Marshal(Message{Method: notif.Method, Params: notif.Params})
	if err != nil {
		log.Error().Err(err).Msg("mqtt publisher: failed to marshal notification")
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Msg("mqtt publisher: failed to publish message")
		return
	}
	log.Debug().Msgf("mqtt publisher: published %s notification", notif.Method)
}

func (p *MQTTPublisher) matchesFilter(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}

// Subscriber is the part of the notification broker publishers need.
type Subscriber interface {
	Subscribe(bufferSize int, methods ...string) (<-chan models.Notification, int)
	Unsubscribe(id int)
}

// StartMQTTPublishers starts a publisher for every enabled MQTT entry in
// the config. Entries that fail to connect are logged and skipped.
func StartMQTTPublishers(
	cfg *config.Instance,
	sub Subscriber,
	newClient ClientFactory,
) []*MQTTPublisher {
	var started []*MQTTPublisher
	for _, pc := range cfg.GetMQTTPublishers() {
		if pc.Enabled != nil && !*pc.Enabled {
			continue
		}
		if pc.Broker == "" || pc.Topic == "" {
			log.Warn().Msg("mqtt publisher: broker and topic are required, skipping")
			continue
		}

		notifs, id := sub.Subscribe(100, pc.Filter...)
		pub := NewMQTTPublisher(pc, newClient)
		if err := pub.Start(notifs); err != nil {
			log.Error().Err(err).Str("broker", pc.Broker).Msg("mqtt publisher: failed to start")
			sub.Unsubscribe(id)
			continue
		}
		started = append(started, pub)
	}
	return started
}
