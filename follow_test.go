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
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestFollowUser(t *testing.T) {
	service, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.follows").
		WithArgs(sqlmock.AnyArg(), "usr_a", "usr_b").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE allthrive.users SET follower_count").
		WithArgs("usr_b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE allthrive.users SET following_count").
		WithArgs("usr_a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := service.FollowUser(context.Background(), "usr_a", "usr_b")
	assert.NoError(t, err)
	assert.Equal(t, "usr_a", created.FollowerID)
	assert.Equal(t, "usr_b", created.FollowedID)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The wire contract keeps the following_id name.
	body, err := json.Marshal(created)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"following_id":"usr_b"`)
	assert.Contains(t, string(body), `"follower_id":"usr_a"`)
}

func TestFollowUserRejectsSelfFollow(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.FollowUser(context.Background(), "usr_a", "usr_a")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}
