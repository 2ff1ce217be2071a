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
	"github.com/allthrive/allthrive/database"

	"github.com/DATA-DOG/go-sqlmock"
)

// newTestService builds a service instance backed by sqlmock and miniredis
// so queue enqueues land in an in-process Redis.
func newTestService(t *testing.T) (*AllThrive, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
		Queue: config.QueueConfig{
			NotificationQueue: "notification:sms",
			WebhookQueue:      "new:webhook",
			IndexQueue:        "new:index",
			PointsQueue:       "new:points",
		},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	service, err := NewAllThrive(&database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("error creating service instance: %s", err)
	}
	return service, mock, mr
}
