/*
Copyright 2025 AllThrive Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package allthrive

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/model"
	"github.com/stretchr/testify/assert"
)

func TestSendWebhook(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	mockConfig := &config.Configuration{
		Redis: config.RedisConfig{
			Dns: mr.Addr(),
		},
		Queue: config.QueueConfig{WebhookQueue: "new:webhook"},
		Notification: config.Notification{Webhook: struct {
			Url     string            `json:"url"`
			Headers map[string]string `json:"headers"`
		}(struct {
			Url     string
			Headers map[string]string
		}{Url: "https:localhost:5001/webhook", Headers: nil})},
	}

	config.ConfigStore.Store(mockConfig)
	testData := NewWebhook{
		Event: "connection.initiated",
		Payload: &model.Connection{
			ConnectionID:   "conn_1",
			ConnectionType: model.ConnTypeDirect,
			InitiatorID:    "usr_1",
			ResponderID:    "usr_2",
			Status:         model.ConnStatusInitiated,
		},
	}

	err = SendWebhook(testData)
	assert.NoError(t, err)

	// Verify that the task was enqueued
	tasks := mr.Keys()
	t.Log(tasks)
	assert.NotEmpty(t, tasks)
}

func TestSendWebhookDisabledWithoutURL(t *testing.T) {
	config.ConfigStore.Store(&config.Configuration{})

	err := SendWebhook(NewWebhook{Event: "connection.accepted"})
	assert.NoError(t, err)
}

func TestGetEventFromConnectionStatus(t *testing.T) {
	cases := map[string]string{
		model.ConnStatusInitiated:  "connection.initiated",
		model.ConnStatusDiscussing: "connection.discussing",
		model.ConnStatusAccepted:   "connection.accepted",
		model.ConnStatusInProgress: "connection.in_progress",
		model.ConnStatusCompleted:  "connection.completed",
		model.ConnStatusDeclined:   "connection.declined",
		model.ConnStatusCancelled:  "connection.cancelled",
		"mystery":                  "connection.unknown",
	}
	for status, event := range cases {
		assert.Equal(t, event, getEventFromConnectionStatus(status))
	}
}
