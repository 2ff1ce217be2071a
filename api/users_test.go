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
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	model2 "github.com/allthrive/allthrive/api/model"
	"github.com/allthrive/allthrive/model"
)

func TestCreateUserAPI(t *testing.T) {
	router, mock := setupRouter(t)

	tests := []struct {
		name         string
		payload      model2.CreateUser
		expectInsert bool
		expectedCode int
	}{
		{
			name: "Valid Profile",
			payload: model2.CreateUser{
				Username:    gofakeit.Username(),
				DisplayName: gofakeit.Name(),
			},
			expectInsert: true,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Missing Username",
			payload:      model2.CreateUser{DisplayName: gofakeit.Name()},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "SMS Opt-In Without Phone",
			payload: model2.CreateUser{
				Username: gofakeit.Username(),
				SMSOptIn: true,
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectInsert {
				mock.ExpectExec("INSERT INTO allthrive.users").
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			var response model.User
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  toJSON(t, tt.payload),
				Response: &response,
				Method:   "POST",
				Route:    "/users",
				Router:   router,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
			if tt.expectInsert {
				assert.Equal(t, tt.payload.Username, response.Username)
				assert.NotEmpty(t, response.UserID)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserAPI(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.users").
		WithArgs("usr_1").
		WillReturnRows(mock.NewRows([]string{
			"user_id", "username", "display_name", "bio", "phone_number", "sms_opt_in",
			"helped_count", "points_balance", "credit_balance", "follower_count", "following_count",
			"created_at", "meta_data",
		}).AddRow("usr_1", "ada", "Ada", "", "", false, 3, 150, 1, 10, 4, time.Now(), []byte(`{}`)))

	var response model.User
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/users/usr_1",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ada", response.Username)
	assert.Equal(t, int64(150), response.PointsBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserAPINotFound(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.users").
		WithArgs("usr_missing").
		WillReturnError(sql.ErrNoRows)

	resp, err := SetUpTestRequest(TestRequest{
		Method: "GET",
		Route:  "/users/usr_missing",
		Router: router,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
