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

package publishers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tcp://localhost:1883", brokerURL("localhost:1883"))
	assert.Equal(t, "ssl://mqtt.example.com:8883", brokerURL("ssl://mqtt.example.com:8883"))
}

func TestMatchesFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		filter []string
		want   bool
	}{
		{name: "nil filter matches all", method: models.NotificationGamesChanged, want: true},
		{name: "empty filter matches all", filter: []string{}, method: models.NotificationUpdateStatus, want: true},
		{
			name:   "method in filter",
			filter: []string{models.NotificationSessionStatus, models.NotificationSessionError},
			method: models.NotificationSessionStatus,
			want:   true,
		},
		{
			name:   "method not in filter",
			filter: []string{models.NotificationSessionStatus},
			method: models.NotificationGamesChanged,
			want:   false,
		},
		{
			name:   "case sensitive",
			filter: []string{models.NotificationSessionStatus},
			method: "Session.Status",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewMQTTPublisher(config.MQTTPublisher{Filter: tt.filter}, nil)
			assert.Equal(t, tt.want, p.matchesFilter(tt.method))
		})
	}
}

func waitPublished(t *testing.T, client *mocks.MockMQTTClient, n int) []mocks.PublishedMessage {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(client.Published()) >= n
	}, time.Second, 5*time.Millisecond)
	return client.Published()
}

func TestPublishesEnvelope(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	p := NewMQTTPublisher(config.MQTTPublisher{
		Broker: "localhost:1883",
		Topic:  "zaparoo/launcher",
	}, client.Factory())

	notifs := make(chan models.Notification, 1)
	require.NoError(t, p.Start(notifs))

	notifs <- models.Notification{
		Method: models.NotificationSessionStatus,
		Params: json.RawMessage(`{"name":"Tetris","running":true}`),
	}

	msgs := waitPublished(t, client, 1)
	assert.Equal(t, "zaparoo/launcher", msgs[0].Topic)

	var got Message
	payload, ok := msgs[0].Payload.([]byte)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, models.NotificationSessionStatus, got.Method)
	assert.JSONEq(t, `{"name":"Tetris","running":true}`, string(got.Params))
	assert.Equal(t, []string{"tcp://localhost:1883"}, brokerHosts(client))

	p.Stop()
	assert.Equal(t, 1, client.Disconnects())
	assert.False(t, client.IsConnected())
}

func brokerHosts(client *mocks.MockMQTTClient) []string {
	out := make([]string, 0, len(client.Options.Servers))
	for _, s := range client.Options.Servers {
		out = append(out, s.String())
	}
	return out
}

func TestFilteredNotificationsSkipped(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	p := NewMQTTPublisher(config.MQTTPublisher{
		Broker: "localhost:1883",
		Topic:  "t",
		Filter: []string{models.NotificationSessionStatus},
	}, client.Factory())

	notifs := make(chan models.Notification, 2)
	require.NoError(t, p.Start(notifs))
	notifs <- models.Notification{Method: models.NotificationGamesChanged}
	notifs <- models.Notification{Method: models.NotificationSessionStatus}

	waitPublished(t, client, 1)
	p.Stop()
	assert.Len(t, client.Published(), 1)
}

func TestConnectError(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	client.ConnectError = assert.AnError
	p := NewMQTTPublisher(config.MQTTPublisher{Broker: "localhost:1883", Topic: "t"}, client.Factory())

	err := p.Start(make(chan models.Notification))
	require.ErrorIs(t, err, assert.AnError)
	p.Stop()
}

func TestPublishErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	client.PublishError = assert.AnError
	p := NewMQTTPublisher(config.MQTTPublisher{Broker: "localhost:1883", Topic: "t"}, client.Factory())

	notifs := make(chan models.Notification)
	require.NoError(t, p.Start(notifs))
	notifs <- models.Notification{Method: models.NotificationGamesChanged}
	notifs <- models.Notification{Method: models.NotificationGamesChanged}

	p.Stop()
	p.Stop()
	assert.Empty(t, client.Published())
}

func TestClosedChannelEndsLoop(t *testing.T) {
	t.Parallel()

	client := mocks.NewMockMQTTClient()
	p := NewMQTTPublisher(config.MQTTPublisher{Broker: "localhost:1883", Topic: "t"}, client.Factory())

	notifs := make(chan models.Notification)
	require.NoError(t, p.Start(notifs))
	close(notifs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish loop did not exit")
	}
	p.Stop()
}

type fakeSubscriber struct {
	subscribed   [][]string
	unsubscribed []int
	mu           syncutil.Mutex
}

func (f *fakeSubscriber) Subscribe(_ int, methods ...string) (<-chan models.Notification, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, methods)
	return make(chan models.Notification), len(f.subscribed) - 1
}

func (f *fakeSubscriber) Unsubscribe(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, id)
}

func TestStartMQTTPublishers(t *testing.T) {
	t.Parallel()

	disabled := false
	cfg := helpers.NewTestConfig(t, func(v *config.Values) {
		v.Service.Publishers.MQTT = []config.MQTTPublisher{
			{Broker: "a:1883", Topic: "one", Filter: []string{models.NotificationSessionStatus}},
			{Broker: "b:1883", Topic: "two", Enabled: &disabled},
			{Broker: "", Topic: "three"},
		}
	})

	client := mocks.NewMockMQTTClient()
	sub := &fakeSubscriber{}
	pubs := StartMQTTPublishers(cfg, sub, client.Factory())
	require.Len(t, pubs, 1)
	assert.Equal(t, [][]string{{models.NotificationSessionStatus}}, sub.subscribed)
	assert.Empty(t, sub.unsubscribed)

	for _, p := range pubs {
		p.Stop()
	}
}

func TestStartMQTTPublishersUnsubscribesOnFailure(t *testing.T) {
	t.Parallel()

	cfg := helpers.NewTestConfig(t, func(v *config.Values) {
		v.Service.Publishers.MQTT = []config.MQTTPublisher{{Broker: "a:1883", Topic: "one"}}
	})

	client := mocks.NewMockMQTTClient()
	client.ConnectError = assert.AnError
	sub := &fakeSubscriber{}

	assert.Empty(t, StartMQTTPublishers(cfg, sub, client.Factory()))
	assert.Equal(t, []int{0}, sub.unsubscribed)
}
