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
package model

import (
	"errors"

	"github.com/allthrive/allthrive/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func listingTypeRule(value interface{}) error {
	t, ok := value.(string)
	if !ok {
		return errors.New("invalid listing type")
	}
	if !model.IsValidListingType(t) {
		return errors.New("unknown listing type")
	}
	return nil
}

func anchorValidation(c *CreateConnection) validation.RuleFunc {
	return func(value interface{}) error {
		if c.AskID != "" && c.OfferID != "" {
			return errors.New("a connection anchors on an ask or an offer, not both")
		}
		switch c.ConnectionType {
		case model.ConnTypeAsk:
			if c.AskID == "" {
				return errors.New("ask_id is required for ask connections")
			}
		case model.ConnTypeOffer:
			if c.OfferID == "" {
				return errors.New("offer_id is required for offer connections")
			}
		case model.ConnTypeDirect:
			if c.AskID != "" || c.OfferID != "" {
				return errors.New("direct connections cannot reference a listing")
			}
			if c.ResponderID == "" {
				return errors.New("responder_id is required for direct connections")
			}
		}
		return nil
	}
}

func (u *CreateUser) ValidateCreateUser() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Username, validation.Required, validation.Length(2, 64)),
		validation.Field(&u.PhoneNumber, validation.When(u.SMSOptIn, validation.Required)),
	)
}

func (o *CreateOffer) ValidateCreateOffer() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Title, validation.Required, validation.Length(3, 140)),
		validation.Field(&o.OfferType, validation.Required, validation.By(listingTypeRule)),
		validation.Field(&o.PriceCents, validation.When(o.IsPaid, validation.Required, validation.Min(1))),
		validation.Field(&o.PricingType, validation.When(o.IsPaid,
			validation.Required,
			validation.In(model.PricingOneTime, model.PricingHourly, model.PricingMonthly))),
	)
}

func (a *CreateAsk) ValidateCreateAsk() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required, validation.Length(3, 140)),
		validation.Field(&a.AskType, validation.Required, validation.By(listingTypeRule)),
	)
}

func (c *CreateConnection) ValidateCreateConnection() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ConnectionType, validation.Required,
			validation.In(model.ConnTypeAsk, model.ConnTypeOffer, model.ConnTypeDirect)),
		validation.Field(&c.AskID, validation.By(anchorValidation(c))),
	)
}

func (u *UpdateConnection) ValidateUpdateConnection() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Status, validation.Required, validation.By(func(value interface{}) error {
			s, ok := value.(string)
			if !ok || !model.IsValidConnectionStatus(s) {
				return errors.New("unknown connection status")
			}
			return nil
		})),
	)
}

func (r *RateConnection) ValidateRateConnection() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
	)
}

func (f *CreateFollow) ValidateCreateFollow() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.FollowingID, validation.Required),
	)
}

func (c *ConvertPoints) ValidateConvertPoints() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Points, validation.Required, validation.Min(1)),
	)
}

func (g *GiftPoints) ValidateGiftPoints() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.RecipientID, validation.Required),
		validation.Field(&g.Amount, validation.Required, validation.Min(1)),
	)
}

func (e *CreateEndorsement) ValidateCreateEndorsement() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.EndorseeID, validation.Required),
		validation.Field(&e.Skill, validation.Required, validation.Length(1, 64)),
	)
}

func (b *AwardBadge) ValidateAwardBadge() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.RecipientID, validation.Required),
		validation.Field(&b.Badge, validation.Required, validation.Length(1, 64)),
	)
}

func (r *CreateAPIKeyRequest) ValidateCreateAPIKeyRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ExpiresAt, validation.Required),
	)
}
