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
	"github.com/allthrive/allthrive/internal/search"
	"github.com/allthrive/allthrive/model"
)

func (a *AllThrive) postAskActions(_ context.Context, ask *model.Ask) {
	go func() {
		err := a.queue.queueIndexData(ask.AskID, search.CollectionAsks, ask)
		if err != nil {
			notification.NotifyError(err)
		}
		err = SendWebhook(NewWebhook{
			Event:   "ask." + ask.Status,
			Payload: ask,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// CreateAsk validates and persists a new ask for the creator.
func (a *AllThrive) CreateAsk(ctx context.Context, ask model.Ask) (model.Ask, error) {
	ctx, span := tracer.Start(ctx, "Creating ask")
	defer span.End()

	if !model.IsValidListingType(ask.AskType) {
		err := fmt.Errorf("unknown ask type: %s", ask.AskType)
		span.RecordError(err)
		return model.Ask{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if ask.Status != "" && !model.IsValidAskStatus(ask.Status) {
		err := fmt.Errorf("unknown ask status: %s", ask.Status)
		span.RecordError(err)
		return model.Ask{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if err := ask.ValidateBudget(); err != nil {
		span.RecordError(err)
		return model.Ask{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	ask, err := a.datasource.CreateAsk(ask)
	if err != nil {
		return model.Ask{}, logAndRecordError(span, "create ask error: ", err)
	}
	span.AddEvent("ask created")

	a.postAskActions(ctx, &ask)
	return ask, nil
}

func (a *AllThrive) GetAsk(ctx context.Context, id string) (*model.Ask, error) {
	return a.datasource.GetAskByID(ctx, id)
}

// GetAllAsks lists open asks for the discover feed.
func (a *AllThrive) GetAllAsks(ctx context.Context, limit, offset int) ([]model.Ask, error) {
	return a.datasource.GetAllAsks(ctx, limit, offset)
}

// GetAsksByCreator lists a creator's asks in every status.
func (a *AllThrive) GetAsksByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Ask, error) {
	return a.datasource.GetAsksByCreator(ctx, creatorID, limit, offset)
}

// UpdateAsk applies edits from the ask's creator.
func (a *AllThrive) UpdateAsk(ctx context.Context, actorID string, ask *model.Ask) error {
	ctx, span := tracer.Start(ctx, "Updating ask")
	defer span.End()

	existing, err := a.datasource.GetAskByID(ctx, ask.AskID)
	if err != nil {
		return logAndRecordError(span, "get ask error: ", err)
	}
	if existing.CreatorID != actorID {
		err := fmt.Errorf("only the creator can edit this ask")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, err.Error(), err)
	}
	if err := ask.ValidateBudget(); err != nil {
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	if err := a.datasource.UpdateAsk(ctx, ask); err != nil {
		return logAndRecordError(span, "update ask error: ", err)
	}
	span.AddEvent("ask updated")

	a.postAskActions(ctx, ask)
	return nil
}

// UpdateAskStatus moves an ask between open, in_progress, fulfilled, and closed.
func (a *AllThrive) UpdateAskStatus(ctx context.Context, actorID, id, status string) error {
	ctx, span := tracer.Start(ctx, "Updating ask status")
	defer span.End()

	if !model.IsValidAskStatus(status) {
		err := fmt.Errorf("unknown ask status: %s", status)
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	ask, err := a.datasource.GetAskByID(ctx, id)
	if err != nil {
		return logAndRecordError(span, "get ask error: ", err)
	}
	if ask.CreatorID != actorID {
		err := fmt.Errorf("only the creator can change this ask's status")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, err.Error(), err)
	}

	if err := a.datasource.UpdateAskStatus(ctx, id, status); err != nil {
		return logAndRecordError(span, "update ask status error: ", err)
	}
	ask.Status = status
	span.AddEvent(fmt.Sprintf("ask moved to %s", status))

	a.postAskActions(ctx, ask)
	return nil
}
