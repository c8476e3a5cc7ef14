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

package mocks

import (
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type PublishedMessage struct {
	Payload  any
	Topic    string
	QoS      byte
	Retained bool
}

// MockMQTTClient is an in-memory mqtt.Client that records publishes.
type MockMQTTClient struct {
	ConnectError error
	PublishError error
	Options      *mqtt.ClientOptions
	published    []PublishedMessage
	disconnects  int
	connected    bool
	mu           syncutil.Mutex
}

func NewMockMQTTClient() *MockMQTTClient {
	return &MockMQTTClient{}
}

// Factory returns a client factory that always hands out m and records the
// options it was built with.
func (m *MockMQTTClient) Factory() func(*mqtt.ClientOptions) mqtt.Client {
	return func(opts *mqtt.ClientOptions) mqtt.Client {
		m.mu.Lock()
		m.Options = opts
		m.mu.Unlock()
		return m
	}
}

func (m *MockMQTTClient) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

func (m *MockMQTTClient) Disconnects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnects
}

func (m *MockMQTTClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockMQTTClient) IsConnectionOpen() bool {
	return m.IsConnected()
}

func (m *MockMQTTClient) Connect() mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConnectError != nil {
		return &MockToken{Err: m.ConnectError}
	}
	m.connected = true
	return &MockToken{}
}

func (m *MockMQTTClient) Disconnect(_ uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.disconnects++
}

func (m *MockMQTTClient) Publish(topic string, qos byte, retained bool, payload any) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return &MockToken{Err: m.PublishError}
	}
	m.published = append(m.published, PublishedMessage{
		Topic:    topic,
		QoS:      qos,
		Retained: retained,
		Payload:  payload,
	})
	return &MockToken{}
}

func (*MockMQTTClient) Subscribe(_ string, _ byte, _ mqtt.MessageHandler) mqtt.Token {
	return &MockToken{}
}

func (*MockMQTTClient) SubscribeMultiple(_ map[string]byte, _ mqtt.MessageHandler) mqtt.Token {
	return &MockToken{}
}

func (*MockMQTTClient) Unsubscribe(_ ...string) mqtt.Token {
	return &MockToken{}
}

func (*MockMQTTClient) AddRoute(_ string, _ mqtt.MessageHandler) {}

func (*MockMQTTClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// MockToken is an already completed mqtt.Token.
type MockToken struct {
	Err error
}

func (*MockToken) Wait() bool {
	return true
}

func (*MockToken) WaitTimeout(_ time.Duration) bool {
	return true
}

func (*MockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *MockToken) Error() error {
	return t.Err
}

var _ mqtt.Client = (*MockMQTTClient)(nil)
