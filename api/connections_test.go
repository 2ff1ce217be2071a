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
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	model2 "github.com/allthrive/allthrive/api/model"
	"github.com/allthrive/allthrive/model"
)

func connectionRows(mock sqlmock.Sqlmock, connID, initiatorID, responderID, status string) *sqlmock.Rows {
	return mock.NewRows([]string{
		"connection_id", "connection_type", "initiator_id", "responder_id", "ask_id", "offer_id",
		"status", "initial_message", "initiator_rating", "responder_rating", "completed_at",
		"created_at", "meta_data",
	}).AddRow(connID, model.ConnTypeDirect, initiatorID, responderID, nil, nil,
		status, "hello", nil, nil, nil, time.Now(), []byte(`{}`))
}

func TestCreateConnectionAPI(t *testing.T) {
	router, mock := setupRouter(t)

	tests := []struct {
		name         string
		payload      model2.CreateConnection
		expectInsert bool
		expectedCode int
	}{
		{
			name: "Valid Direct Connection",
			payload: model2.CreateConnection{
				ConnectionType: model.ConnTypeDirect,
				ResponderID:    "usr_responder",
				InitialMessage: "I saw your profile and would love to chat",
			},
			expectInsert: true,
			expectedCode: http.StatusCreated,
		},
		{
			name: "Direct Connection Without Responder",
			payload: model2.CreateConnection{
				ConnectionType: model.ConnTypeDirect,
				InitialMessage: "hello",
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Ask Connection With Offer Anchor",
			payload: model2.CreateConnection{
				ConnectionType: model.ConnTypeAsk,
				AskID:          "ask_1",
				OfferID:        "off_1",
				InitialMessage: "hello",
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectInsert {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO allthrive.connections").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			}

			var response model.Connection
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  toJSON(t, tt.payload),
				Response: &response,
				Method:   "POST",
				Route:    "/connections",
				Router:   router,
				Header:   map[string]string{"X-AllThrive-User": "usr_initiator"},
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
			if tt.expectInsert {
				assert.Equal(t, model.ConnStatusInitiated, response.Status)
				assert.Equal(t, "usr_initiator", response.InitiatorID)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionConnectionAPI(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRows(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusInitiated))
	mock.ExpectExec("UPDATE allthrive.connections").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var response model.Connection
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  toJSON(t, model2.UpdateConnection{Status: model.ConnStatusAccepted}),
		Response: &response,
		Method:   "PATCH",
		Route:    "/connections/conn_1",
		Router:   router,
		Header:   map[string]string{"X-AllThrive-User": "usr_responder"},
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.ConnStatusAccepted, response.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionConnectionAPIForbidden(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRows(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusInitiated))

	resp, err := SetUpTestRequest(TestRequest{
		Payload: toJSON(t, model2.UpdateConnection{Status: model.ConnStatusAccepted}),
		Method:  "PATCH",
		Route:   "/connections/conn_1",
		Router:  router,
		Header:  map[string]string{"X-AllThrive-User": "usr_stranger"},
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
