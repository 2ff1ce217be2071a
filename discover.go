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

	"github.com/allthrive/allthrive/model"
)

// DiscoverFeed bundles the browsable marketplace surfaces: active offers
// and open asks.
type DiscoverFeed struct {
	Offers []model.Offer `json:"offers"`
	Asks   []model.Ask   `json:"asks"`
}

// Discover returns the browse feed. Only active offers and open asks are
// surfaced; drafts and closed listings stay private to their creators.
func (a *AllThrive) Discover(ctx context.Context, limit, offset int) (*DiscoverFeed, error) {
	ctx, span := tracer.Start(ctx, "Building discover feed")
	defer span.End()

	offers, err := a.datasource.GetAllOffers(ctx, limit, offset)
	if err != nil {
		return nil, logAndRecordError(span, "discover offers error: ", err)
	}
	asks, err := a.datasource.GetAllAsks(ctx, limit, offset)
	if err != nil {
		return nil, logAndRecordError(span, "discover asks error: ", err)
	}

	return &DiscoverFeed{Offers: offers, Asks: asks}, nil
}
