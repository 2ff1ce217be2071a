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

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/allthrive/allthrive"
	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/database"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		err := json.NewDecoder(resp.Body).Decode(&s.Response)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func toJSON(t *testing.T, payload interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("error marshaling payload: %s", err)
	}
	return bytes.NewReader(data)
}

// setupRouter builds a full router backed by sqlmock and miniredis so
// handler tests run without live infrastructure.
func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
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

	service, err := allthrive.NewAllThrive(&database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("error creating service instance: %s", err)
	}

	return NewAPI(service).Router(), mock
}
