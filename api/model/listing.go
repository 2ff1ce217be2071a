package model

import (
	"github.com/allthrive/allthrive/model"
)

type CreateOffer struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	OfferType   string                 `json:"offer_type"`
	IsPaid      bool                   `json:"is_paid"`
	PriceCents  int64                  `json:"price_cents"`
	PricingType string                 `json:"pricing_type"`
	Status      string                 `json:"status"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

type UpdateOffer struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	PriceCents  *int64                 `json:"price_cents"`
	PricingType string                 `json:"pricing_type"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

type UpdateListingStatus struct {
	Status string `json:"status"`
}

type CreateAsk struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	AskType        string                 `json:"ask_type"`
	BudgetMinCents *int64                 `json:"budget_min_cents"`
	BudgetMaxCents *int64                 `json:"budget_max_cents"`
	MetaData       map[string]interface{} `json:"meta_data"`
}

type UpdateAsk struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	BudgetMinCents *int64                 `json:"budget_min_cents"`
	BudgetMaxCents *int64                 `json:"budget_max_cents"`
	MetaData       map[string]interface{} `json:"meta_data"`
}

func (o *CreateOffer) ToOffer(creatorID string) model.Offer {
	status := o.Status
	if status == "" {
		status = model.OfferStatusActive
	}
	return model.Offer{
		CreatorID:   creatorID,
		Title:       o.Title,
		Description: o.Description,
		OfferType:   o.OfferType,
		IsPaid:      o.IsPaid,
		PriceCents:  o.PriceCents,
		PricingType: o.PricingType,
		Status:      status,
		MetaData:    o.MetaData,
	}
}

func (o *UpdateOffer) ApplyTo(target *model.Offer) {
	if o.Title != "" {
		target.Title = o.Title
	}
	if o.Description != "" {
		target.Description = o.Description
	}
	if o.PriceCents != nil {
		target.PriceCents = *o.PriceCents
	}
	if o.PricingType != "" {
		target.PricingType = o.PricingType
	}
	if o.MetaData != nil {
		target.MetaData = o.MetaData
	}
}

func (a *CreateAsk) ToAsk(creatorID string) model.Ask {
	return model.Ask{
		CreatorID:      creatorID,
		Title:          a.Title,
		Description:    a.Description,
		AskType:        a.AskType,
		BudgetMinCents: a.BudgetMinCents,
		BudgetMaxCents: a.BudgetMaxCents,
		Status:         model.AskStatusOpen,
		MetaData:       a.MetaData,
	}
}

func (a *UpdateAsk) ApplyTo(target *model.Ask) {
	if a.Title != "" {
		target.Title = a.Title
	}
	if a.Description != "" {
		target.Description = a.Description
	}
	if a.BudgetMinCents != nil {
		target.BudgetMinCents = a.BudgetMinCents
	}
	if a.BudgetMaxCents != nil {
		target.BudgetMaxCents = a.BudgetMaxCents
	}
	if a.MetaData != nil {
		target.MetaData = a.MetaData
	}
}
