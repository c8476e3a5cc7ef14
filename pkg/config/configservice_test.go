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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIListen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port   *int
		name   string
		listen string
		want   string
	}{
		{name: "default loopback", want: "127.0.0.1:7597"},
		{name: "custom port", port: intPtr(8080), want: "127.0.0.1:8080"},
		{name: "explicit listen wins", port: intPtr(8080), listen: ":9999", want: ":9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{vals: Values{Service: Service{
				APIPort:   tt.port,
				APIListen: tt.listen,
			}}}
			assert.Equal(t, tt.want, inst.APIListen())
		})
	}
}

// APIListen previously called APIPort while holding RLock. With
// -tags=deadlock a recursive lock panics, so this guards the regression.
func TestAPIListen_NoRecursiveLock(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}

	done := make(chan struct{})
	go func() {
		_ = cfg.APIListen()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("APIListen() deadlocked")
	}
}

func TestGetMQTTPublishers(t *testing.T) {
	t.Parallel()

	inst := &Instance{vals: Values{Service: Service{Publishers: Publishers{
		MQTT: []MQTTPublisher{{Broker: "localhost:1883", Topic: "launcher/status"}},
	}}}}

	pubs := inst.GetMQTTPublishers()
	assert.Len(t, pubs, 1)
	assert.Equal(t, "launcher/status", pubs[0].Topic)
}
