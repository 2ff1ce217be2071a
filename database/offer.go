package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
)

func (d Datasource) CreateOffer(offer model.Offer) (model.Offer, error) {
	metaDataJSON, err := json.Marshal(offer.MetaData)
	if err != nil {
		return model.Offer{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	offer.OfferID = model.GenerateUUIDWithSuffix("off")
	offer.CreatedAt = time.Now()
	if offer.Status == "" {
		offer.Status = model.OfferStatusDraft
	}

	_, err = d.Conn.Exec(`
		INSERT INTO allthrive.offers
			(offer_id, creator_id, title, description, offer_type, is_paid, price_cents,
			 pricing_type, stripe_product_id, stripe_price_id, status, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, offer.OfferID, offer.CreatorID, offer.Title, offer.Description, offer.OfferType, offer.IsPaid,
		offer.PriceCents, offer.PricingType, offer.StripeProductID, offer.StripePriceID, offer.Status, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "foreign_key_violation":
				return model.Offer{}, apierror.NewAPIError(apierror.ErrNotFound, "Creator does not exist", err)
			case "check_violation":
				return model.Offer{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Offer failed a database constraint", err)
			default:
				return model.Offer{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Offer{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create offer", err)
	}

	return offer, nil
}

const offerColumns = `
	offer_id, creator_id, title, description, offer_type, is_paid, price_cents,
	pricing_type, stripe_product_id, stripe_price_id, status, view_count, connection_count,
	created_at, meta_data
`

func scanOffer(row interface{ Scan(...interface{}) error }) (*model.Offer, error) {
	offer := model.Offer{}
	var metaDataJSON []byte
	err := row.Scan(&offer.OfferID, &offer.CreatorID, &offer.Title, &offer.Description, &offer.OfferType,
		&offer.IsPaid, &offer.PriceCents, &offer.PricingType, &offer.StripeProductID, &offer.StripePriceID,
		&offer.Status, &offer.ViewCount, &offer.ConnectionCount, &offer.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metaDataJSON, &offer.MetaData); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (d Datasource) GetOfferByID(ctx context.Context, id string) (*model.Offer, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+offerColumns+`
		FROM allthrive.offers
		WHERE offer_id = $1
	`, id)

	offer, err := scanOffer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Offer not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve offer", err)
	}
	return offer, nil
}

func (d Datasource) GetAllOffers(ctx context.Context, limit, offset int) ([]model.Offer, error) {
	// The browse feed is the hottest read path; keep pages warm for a minute.
	cacheKey := fmt.Sprintf("offers:active:%d:%d", limit, offset)

	var cached []model.Offer
	if d.Cache != nil {
		if err := d.Cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM allthrive.offers
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve offers", err)
	}
	defer rows.Close()

	offers, err := collectOffers(rows)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil && len(offers) > 0 {
		if err := d.Cache.Set(ctx, cacheKey, offers, time.Minute); err != nil {
			log.Printf("Failed to cache offers: %v", err)
		}
	}

	return offers, nil
}

func (d Datasource) GetOffersByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Offer, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM allthrive.offers
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, creatorID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve offers", err)
	}
	defer rows.Close()

	return collectOffers(rows)
}

func collectOffers(rows *sql.Rows) ([]model.Offer, error) {
	offers := []model.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan offer data", err)
		}
		offers = append(offers, *offer)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over offers", err)
	}
	return offers, nil
}

func (d Datasource) UpdateOffer(ctx context.Context, offer *model.Offer) error {
	metaDataJSON, err := json.Marshal(offer.MetaData)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.offers
		SET title = $2, description = $3, offer_type = $4, is_paid = $5, price_cents = $6,
			pricing_type = $7, status = $8, meta_data = $9
		WHERE offer_id = $1
	`, offer.OfferID, offer.Title, offer.Description, offer.OfferType, offer.IsPaid, offer.PriceCents,
		offer.PricingType, offer.Status, metaDataJSON)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update offer", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Offer not found", nil)
	}
	return nil
}

func (d Datasource) UpdateOfferStatus(ctx context.Context, id, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.offers SET status = $2 WHERE offer_id = $1
	`, id, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update offer status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Offer not found", nil)
	}
	return nil
}

// IncrementOfferViews bumps the denormalized view counter with an atomic
// field increment so concurrent reads cannot lose updates.
func (d Datasource) IncrementOfferViews(ctx context.Context, id string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.offers SET view_count = view_count + 1 WHERE offer_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to increment view count", err)
	}
	return nil
}
