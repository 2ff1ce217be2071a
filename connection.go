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
	"fmt"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/internal/notification"
	"github.com/allthrive/allthrive/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

func (a *AllThrive) postConnectionActions(_ context.Context, conn *model.Connection) {
	go func() {
		err := SendWebhook(NewWebhook{
			Event:   getEventFromConnectionStatus(conn.Status),
			Payload: conn,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// resolveResponder determines the responder from the connection's anchor.
// For an offer the responder is the offer's creator; for an ask it is the
// user who reached out to help, so the initiator stays as given and the
// responder is the ask's creator.
func (a *AllThrive) resolveResponder(ctx context.Context, conn *model.Connection) error {
	switch conn.ConnectionType {
	case model.ConnTypeOffer:
		offer, err := a.datasource.GetOfferByID(ctx, conn.OfferID)
		if err != nil {
			return err
		}
		if offer.Status != model.OfferStatusActive {
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Offer is not active", nil)
		}
		conn.ResponderID = offer.CreatorID
	case model.ConnTypeAsk:
		ask, err := a.datasource.GetAskByID(ctx, conn.AskID)
		if err != nil {
			return err
		}
		if ask.Status != model.AskStatusOpen {
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Ask is not open", nil)
		}
		conn.ResponderID = ask.CreatorID
	}
	return nil
}

// CreateConnection validates the anchor, resolves the responder from the
// listing, and persists the connection. The responder is notified by SMS
// through the notification queue.
func (a *AllThrive) CreateConnection(ctx context.Context, conn *model.Connection) (*model.Connection, error) {
	ctx, span := tracer.Start(ctx, "Creating connection")
	defer span.End()

	// Anchor shape is checked before touching the database so a missing or
	// doubled anchor reads as invalid input, not a lookup failure.
	if err := conn.ValidateAnchor(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	if err := a.resolveResponder(ctx, conn); err != nil {
		return nil, logAndRecordError(span, "resolve responder error: ", err)
	}

	// The responder of a listing connection is only known after resolution.
	if conn.InitiatorID == conn.ResponderID {
		err := fmt.Errorf("initiator and responder cannot be the same user")
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	created, err := a.datasource.CreateConnection(ctx, conn)
	if err != nil {
		return nil, logAndRecordError(span, "create connection error: ", err)
	}
	span.AddEvent("connection created")

	a.postConnectionActions(ctx, created)
	a.notifyConnection(created.ResponderID, fmt.Sprintf("You have a new connection request on AllThrive: %q", created.InitialMessage))

	return created, nil
}

// GetConnection returns a connection visible only to its participants.
func (a *AllThrive) GetConnection(ctx context.Context, id, actorID string) (*model.Connection, error) {
	conn, err := a.datasource.GetConnectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := conn.RoleOf(actorID); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only participants can view this connection", err)
	}
	return conn, nil
}

// GetConnectionsForUser lists the connections the user participates in.
func (a *AllThrive) GetConnectionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Connection, error) {
	return a.datasource.GetConnectionsForUser(ctx, userID, limit, offset)
}

// TransitionConnection moves a connection through its lifecycle on behalf
// of the acting participant. Completion awards points to both sides and
// notifies them; all terminal transitions are idempotent no-ops on repeat.
func (a *AllThrive) TransitionConnection(ctx context.Context, id, actorID, newStatus string) (*model.Connection, error) {
	ctx, span := tracer.Start(ctx, "Transitioning connection")
	defer span.End()

	if !model.IsValidConnectionStatus(newStatus) {
		err := fmt.Errorf("unknown connection status: %s", newStatus)
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	conn, err := a.datasource.GetConnectionByID(ctx, id)
	if err != nil {
		return nil, logAndRecordError(span, "get connection error: ", err)
	}

	role, err := conn.RoleOf(actorID)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Only participants can act on this connection", err)
	}

	// Repeating the current status is a no-op, so a retried completion PATCH
	// reads back the connection instead of a conflict.
	if conn.Status == newStatus {
		span.AddEvent("connection already in requested status")
		return conn, nil
	}

	if err := conn.AuthorizeTransition(newStatus, role); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrConflict, err.Error(), err)
	}

	if newStatus == model.ConnStatusCompleted {
		return a.completeConnection(ctx, conn)
	}

	transitioned, err := a.datasource.UpdateConnectionStatus(ctx, id, newStatus)
	if err != nil {
		return nil, logAndRecordError(span, "update connection status error: ", err)
	}
	if transitioned {
		conn.Status = newStatus
		span.AddEvent(fmt.Sprintf("connection moved to %s", newStatus))
		a.postConnectionActions(ctx, conn)
	}
	return conn, nil
}

// completeConnection finalizes the lifecycle. The datasource transition is
// conditional, so points are only queued the first time the connection
// lands in completed.
func (a *AllThrive) completeConnection(ctx context.Context, conn *model.Connection) (*model.Connection, error) {
	ctx, span := tracer.Start(ctx, "Completing connection")
	defer span.End()

	transitioned, err := a.datasource.CompleteConnection(ctx, conn.ConnectionID)
	if err != nil {
		return nil, logAndRecordError(span, "complete connection error: ", err)
	}
	if !transitioned {
		return conn, nil
	}
	conn.Status = model.ConnStatusCompleted
	span.AddEvent("connection completed")

	for _, award := range []PointsAwardPayload{
		{
			UserID:         conn.ResponderID,
			CounterpartyID: conn.InitiatorID,
			ConnectionID:   conn.ConnectionID,
			Amount:         model.PointsConnectionCompleted,
			Reason:         model.ReasonConnectionCompleted,
			Reference:      fmt.Sprintf("%s:completed:%s", conn.ConnectionID, conn.ResponderID),
		},
		{
			UserID:         conn.InitiatorID,
			CounterpartyID: conn.ResponderID,
			ConnectionID:   conn.ConnectionID,
			Amount:         model.PointsConnectionCompleted,
			Reason:         model.ReasonConnectionCompleted,
			Reference:      fmt.Sprintf("%s:completed:%s", conn.ConnectionID, conn.InitiatorID),
		},
	} {
		if err := a.queue.queuePointsAward(award); err != nil {
			notification.NotifyError(err)
		}
	}

	a.postConnectionActions(ctx, conn)
	a.notifyConnection(conn.InitiatorID, "Your AllThrive connection was marked completed. You earned points!")
	a.notifyConnection(conn.ResponderID, "Your AllThrive connection was marked completed. You earned points!")

	return conn, nil
}

// RateConnection records a 1-5 rating from one participant of a completed
// connection.
func (a *AllThrive) RateConnection(ctx context.Context, id, actorID string, rating int) error {
	ctx, span := tracer.Start(ctx, "Rating connection")
	defer span.End()

	if rating < 1 || rating > 5 {
		err := fmt.Errorf("rating must be between 1 and 5, got %d", rating)
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	conn, err := a.datasource.GetConnectionByID(ctx, id)
	if err != nil {
		return logAndRecordError(span, "get connection error: ", err)
	}

	role, err := conn.RoleOf(actorID)
	if err != nil {
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, "Only participants can rate this connection", err)
	}

	if err := a.datasource.RateConnection(ctx, id, role, rating); err != nil {
		return logAndRecordError(span, "rate connection error: ", err)
	}
	span.AddEvent("connection rated")
	return nil
}

// notifyConnection queues an SMS for the given user.
func (a *AllThrive) notifyConnection(userID, body string) {
	go func() {
		err := a.queue.queueSMS(SMSPayload{UserID: userID, Body: body})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}
