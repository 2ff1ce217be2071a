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
	"fmt"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/hibiken/asynq"
)

// ConvertPoints converts a user's points to credits at the fixed ratio.
// Conversion is one way and only whole multiples above the minimum are
// accepted.
func (a *AllThrive) ConvertPoints(ctx context.Context, userID string, points int64) ([]model.CreditTransaction, error) {
	ctx, span := tracer.Start(ctx, "Converting points to credits")
	defer span.End()

	credits, err := model.CreditsForPoints(points)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	legs, err := a.datasource.ConvertPoints(ctx, userID, points, credits)
	if err != nil {
		return nil, logAndRecordError(span, "convert points error: ", err)
	}
	span.AddEvent(fmt.Sprintf("converted %d points to %d credits", points, credits))
	return legs, nil
}

// GiftPoints transfers points from the acting user to a recipient and
// notifies the recipient.
func (a *AllThrive) GiftPoints(ctx context.Context, gift *model.PointGift) (*model.PointGift, error) {
	ctx, span := tracer.Start(ctx, "Gifting points")
	defer span.End()

	if err := gift.Validate(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	created, err := a.datasource.CreatePointGift(ctx, gift)
	if err != nil {
		return nil, logAndRecordError(span, "create point gift error: ", err)
	}
	span.AddEvent("points gifted")

	a.notifyConnection(created.RecipientID, fmt.Sprintf("You received %d points on AllThrive!", created.Amount))
	return created, nil
}

// EndorseSkill records a skill endorsement and awards the endorsee their
// points.
func (a *AllThrive) EndorseSkill(ctx context.Context, endorsement *model.Endorsement) (*model.Endorsement, error) {
	ctx, span := tracer.Start(ctx, "Endorsing skill")
	defer span.End()

	if err := endorsement.Validate(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	created, err := a.datasource.CreateEndorsement(ctx, endorsement)
	if err != nil {
		return nil, logAndRecordError(span, "create endorsement error: ", err)
	}
	span.AddEvent("skill endorsed")
	return created, nil
}

// AwardBadge records a peer badge and awards the recipient their points.
func (a *AllThrive) AwardBadge(ctx context.Context, award *model.PeerBadgeAward) (*model.PeerBadgeAward, error) {
	ctx, span := tracer.Start(ctx, "Awarding badge")
	defer span.End()

	if err := award.Validate(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	created, err := a.datasource.CreateBadgeAward(ctx, award)
	if err != nil {
		return nil, logAndRecordError(span, "create badge award error: ", err)
	}
	span.AddEvent("badge awarded")
	return created, nil
}

// GetTransactionsForUser returns a user's ledger history, newest first.
func (a *AllThrive) GetTransactionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error) {
	return a.datasource.GetTransactionsForUser(ctx, userID, limit, offset)
}

// ProcessPointsAward consumes a deferred points award from the queue. The
// ledger reference check makes a retried task a no-op even if the original
// attempt committed before failing.
func (a *AllThrive) ProcessPointsAward(ctx context.Context, task *asynq.Task) error {
	ctx, span := tracer.Start(ctx, "Processing points award")
	defer span.End()

	var payload PointsAwardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return logAndRecordError(span, "unmarshal points award error: ", err)
	}

	exists, err := a.datasource.TransactionExistsByRef(ctx, payload.Reference)
	if err != nil {
		return logAndRecordError(span, "check transaction reference error: ", err)
	}
	if exists {
		span.AddEvent("award already recorded, skipping")
		return nil
	}

	_, err = a.datasource.RecordCreditTransaction(ctx, &model.CreditTransaction{
		UserID:         payload.UserID,
		CounterpartyID: payload.CounterpartyID,
		ConnectionID:   payload.ConnectionID,
		Amount:         payload.Amount,
		Currency:       model.CurrencyPoints,
		Reason:         payload.Reason,
		Reference:      payload.Reference,
	})
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrConflict {
			// Lost the race to another worker; the award is recorded.
			return nil
		}
		return logAndRecordError(span, "record points award error: ", err)
	}
	span.AddEvent("points award recorded")
	return nil
}
