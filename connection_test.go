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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/stretchr/testify/assert"
)

func offerRow(mock sqlmock.Sqlmock, offerID, creatorID, status string) *sqlmock.Rows {
	return mock.NewRows([]string{
		"offer_id", "creator_id", "title", "description", "offer_type", "is_paid", "price_cents",
		"pricing_type", "stripe_product_id", "stripe_price_id", "status", "view_count",
		"connection_count", "created_at", "meta_data",
	}).AddRow(offerID, creatorID, "Pair programming", "An hour of pairing", "service", false, 0,
		"", "", "", status, 0, 0, time.Now(), []byte(`{}`))
}

func connectionRow(mock sqlmock.Sqlmock, connID, initiatorID, responderID, status string) *sqlmock.Rows {
	return mock.NewRows([]string{
		"connection_id", "connection_type", "initiator_id", "responder_id", "ask_id", "offer_id",
		"status", "initial_message", "initiator_rating", "responder_rating", "completed_at",
		"created_at", "meta_data",
	}).AddRow(connID, model.ConnTypeOffer, initiatorID, responderID, nil, "off_1",
		status, "hello", nil, nil, nil, time.Now(), []byte(`{}`))
}

func TestCreateConnectionResolvesResponderFromOffer(t *testing.T) {
	service, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.offers").
		WithArgs("off_1").
		WillReturnRows(offerRow(mock, "off_1", "usr_responder", model.OfferStatusActive))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.connections").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE allthrive.offers SET connection_count").
		WithArgs("off_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := service.CreateConnection(context.Background(), &model.Connection{
		ConnectionType: model.ConnTypeOffer,
		InitiatorID:    "usr_initiator",
		OfferID:        "off_1",
		InitialMessage: "hello",
	})
	assert.NoError(t, err)
	assert.Equal(t, "usr_responder", created.ResponderID)
	assert.Equal(t, model.ConnStatusInitiated, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConnectionRejectsInactiveOffer(t *testing.T) {
	service, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.offers").
		WithArgs("off_1").
		WillReturnRows(offerRow(mock, "off_1", "usr_responder", model.OfferStatusPaused))

	_, err := service.CreateConnection(context.Background(), &model.Connection{
		ConnectionType: model.ConnTypeOffer,
		InitiatorID:    "usr_initiator",
		OfferID:        "off_1",
		InitialMessage: "hello",
	})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConnectionMissingAnchorIsInvalidInput(t *testing.T) {
	service, mock, _ := newTestService(t)

	// No offer lookup happens; the anchor is rejected before the database.
	_, err := service.CreateConnection(context.Background(), &model.Connection{
		ConnectionType: model.ConnTypeOffer,
		InitiatorID:    "usr_initiator",
		InitialMessage: "hello",
	})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConnectionRejectsSelfConnection(t *testing.T) {
	service, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.offers").
		WithArgs("off_1").
		WillReturnRows(offerRow(mock, "off_1", "usr_creator", model.OfferStatusActive))

	_, err := service.CreateConnection(context.Background(), &model.Connection{
		ConnectionType: model.ConnTypeOffer,
		InitiatorID:    "usr_creator",
		OfferID:        "off_1",
		InitialMessage: "hello",
	})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}

func TestTransitionConnectionOutsiderForbidden(t *testing.T) {
	service, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRow(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusInitiated))

	_, err := service.TransitionConnection(context.Background(), "conn_1", "usr_stranger", model.ConnStatusDiscussing)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrForbidden, apiErr.Code)
}

func TestTransitionConnectionGuardsRole(t *testing.T) {
	service, mock, _ := newTestService(t)

	// Only the responder may accept a fresh connection.
	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRow(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusInitiated))

	_, err := service.TransitionConnection(context.Background(), "conn_1", "usr_initiator", model.ConnStatusAccepted)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestTransitionConnectionCompletesAndQueuesPoints(t *testing.T) {
	service, mock, mr := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRow(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusInProgress))

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(mock.NewRows([]string{"responder_id"}).AddRow("usr_responder"))
	mock.ExpectExec("UPDATE allthrive.users SET helped_count").
		WithArgs("usr_responder").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	conn, err := service.TransitionConnection(context.Background(), "conn_1", "usr_responder", model.ConnStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, model.ConnStatusCompleted, conn.Status)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Both point awards were enqueued.
	assert.NotEmpty(t, mr.Keys())
}

func TestTransitionConnectionRepeatedCompletionIsNoOp(t *testing.T) {
	service, mock, mr := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM allthrive.connections").
		WithArgs("conn_1").
		WillReturnRows(connectionRow(mock, "conn_1", "usr_initiator", "usr_responder", model.ConnStatusCompleted))

	conn, err := service.TransitionConnection(context.Background(), "conn_1", "usr_responder", model.ConnStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, model.ConnStatusCompleted, conn.Status)
	assert.NoError(t, mock.ExpectationsWereMet())

	// No second round of point awards.
	assert.Empty(t, mr.Keys())
}

func TestTransitionConnectionUnknownStatus(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.TransitionConnection(context.Background(), "conn_1", "usr_initiator", "paused")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}

func TestRateConnectionBounds(t *testing.T) {
	service, _, _ := newTestService(t)

	err := service.RateConnection(context.Background(), "conn_1", "usr_initiator", 9)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}
