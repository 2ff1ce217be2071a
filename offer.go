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

func (a *AllThrive) postOfferActions(_ context.Context, offer *model.Offer) {
	go func() {
		err := a.queue.queueIndexData(offer.OfferID, search.CollectionOffers, offer)
		if err != nil {
			notification.NotifyError(err)
		}
		err = SendWebhook(NewWebhook{
			Event:   "offer." + offer.Status,
			Payload: offer,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// CreateOffer validates and persists a new offer for the creator.
func (a *AllThrive) CreateOffer(ctx context.Context, offer model.Offer) (model.Offer, error) {
	ctx, span := tracer.Start(ctx, "Creating offer")
	defer span.End()

	if !model.IsValidListingType(offer.OfferType) {
		err := fmt.Errorf("unknown offer type: %s", offer.OfferType)
		span.RecordError(err)
		return model.Offer{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if offer.Status != "" && !model.IsValidOfferStatus(offer.Status) {
		err := fmt.Errorf("unknown offer status: %s", offer.Status)
		span.RecordError(err)
		return model.Offer{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if offer.IsPaid && offer.PriceCents <= 0 {
		err := fmt.Errorf("paid offers need a positive price")
		span.RecordError(err)
		return model.Offer{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	offer, err := a.datasource.CreateOffer(offer)
	if err != nil {
		return model.Offer{}, logAndRecordError(span, "create offer error: ", err)
	}
	span.AddEvent("offer created")

	a.postOfferActions(ctx, &offer)
	return offer, nil
}

// GetOffer returns the offer and counts the view.
func (a *AllThrive) GetOffer(ctx context.Context, id string) (*model.Offer, error) {
	offer, err := a.datasource.GetOfferByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.datasource.IncrementOfferViews(ctx, id); err != nil {
		notification.NotifyError(err)
	} else {
		offer.ViewCount++
	}
	return offer, nil
}

// GetAllOffers lists active offers for the discover feed.
func (a *AllThrive) GetAllOffers(ctx context.Context, limit, offset int) ([]model.Offer, error) {
	return a.datasource.GetAllOffers(ctx, limit, offset)
}

// GetOffersByCreator lists a creator's offers in every status.
func (a *AllThrive) GetOffersByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Offer, error) {
	return a.datasource.GetOffersByCreator(ctx, creatorID, limit, offset)
}

// UpdateOffer applies edits from the offer's creator.
func (a *AllThrive) UpdateOffer(ctx context.Context, actorID string, offer *model.Offer) error {
	ctx, span := tracer.Start(ctx, "Updating offer")
	defer span.End()

	existing, err := a.datasource.GetOfferByID(ctx, offer.OfferID)
	if err != nil {
		return logAndRecordError(span, "get offer error: ", err)
	}
	if existing.CreatorID != actorID {
		err := fmt.Errorf("only the creator can edit this offer")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, err.Error(), err)
	}
	if offer.Status != "" && !model.IsValidOfferStatus(offer.Status) {
		err := fmt.Errorf("unknown offer status: %s", offer.Status)
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	if err := a.datasource.UpdateOffer(ctx, offer); err != nil {
		return logAndRecordError(span, "update offer error: ", err)
	}
	span.AddEvent("offer updated")

	a.postOfferActions(ctx, offer)
	return nil
}

// UpdateOfferStatus moves an offer between draft, active, paused, and archived.
func (a *AllThrive) UpdateOfferStatus(ctx context.Context, actorID, id, status string) error {
	ctx, span := tracer.Start(ctx, "Updating offer status")
	defer span.End()

	if !model.IsValidOfferStatus(status) {
		err := fmt.Errorf("unknown offer status: %s", status)
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	offer, err := a.datasource.GetOfferByID(ctx, id)
	if err != nil {
		return logAndRecordError(span, "get offer error: ", err)
	}
	if offer.CreatorID != actorID {
		err := fmt.Errorf("only the creator can change this offer's status")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, err.Error(), err)
	}

	if err := a.datasource.UpdateOfferStatus(ctx, id, status); err != nil {
		return logAndRecordError(span, "update offer status error: ", err)
	}
	offer.Status = status
	span.AddEvent(fmt.Sprintf("offer moved to %s", status))

	a.postOfferActions(ctx, offer)
	return nil
}
