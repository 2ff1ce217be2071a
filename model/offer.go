package model

import "time"

const (
	OfferStatusDraft    = "draft"
	OfferStatusActive   = "active"
	OfferStatusPaused   = "paused"
	OfferStatusArchived = "archived"
)

const (
	PricingOneTime = "one_time"
	PricingHourly  = "hourly"
	PricingMonthly = "monthly"
)

// ListingTypes is the shared category set for offers and asks.
var ListingTypes = []string{"app", "course", "service", "skill", "feedback", "template", "post", "link", "mentorship"}

type Offer struct {
	ID              int64                  `json:"-"`
	OfferID         string                 `json:"offer_id"`
	CreatorID       string                 `json:"creator_id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	OfferType       string                 `json:"offer_type"`
	IsPaid          bool                   `json:"is_paid"`
	PriceCents      int64                  `json:"price_cents,omitempty"`
	PricingType     string                 `json:"pricing_type,omitempty"`
	StripeProductID string                 `json:"stripe_product_id,omitempty"`
	StripePriceID   string                 `json:"stripe_price_id,omitempty"`
	Status          string                 `json:"status"`
	ViewCount       int64                  `json:"view_count"`
	ConnectionCount int64                  `json:"connection_count"`
	CreatedAt       time.Time              `json:"created_at"`
	MetaData        map[string]interface{} `json:"meta_data,omitempty"`
}

// IsValidOfferStatus reports whether status belongs to the offer lifecycle.
func IsValidOfferStatus(status string) bool {
	switch status {
	case OfferStatusDraft, OfferStatusActive, OfferStatusPaused, OfferStatusArchived:
		return true
	}
	return false
}

// IsValidListingType reports whether t belongs to the shared category set.
func IsValidListingType(t string) bool {
	for _, v := range ListingTypes {
		if v == t {
			return true
		}
	}
	return false
}
