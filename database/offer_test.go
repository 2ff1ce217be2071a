package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCreateOffer_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	offer := model.Offer{
		CreatorID:   "usr_1",
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		OfferType:   "service",
	}

	mock.ExpectExec("INSERT INTO allthrive.offers").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateOffer(offer)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.OfferID)
	assert.Equal(t, model.OfferStatusDraft, created.Status)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestCreateOffer_UnknownCreator(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	offer := model.Offer{
		CreatorID: "usr_missing",
		Title:     "Resume reviews",
		OfferType: "feedback",
	}

	mock.ExpectExec("INSERT INTO allthrive.offers").
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign_key_violation"})

	_, err = ds.CreateOffer(offer)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func offerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"offer_id", "creator_id", "title", "description", "offer_type", "is_paid", "price_cents",
		"pricing_type", "stripe_product_id", "stripe_price_id", "status", "view_count", "connection_count",
		"created_at", "meta_data",
	})
}

func TestGetOfferByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM allthrive.offers WHERE offer_id =").
		WithArgs("off_1").
		WillReturnRows(offerRows().AddRow("off_1", "usr_1", "Mock interviews", "", "service",
			false, int64(0), model.PricingOneTime, "", "", model.OfferStatusActive, 3, 1, time.Now(), []byte(`{}`)))

	offer, err := ds.GetOfferByID(context.Background(), "off_1")
	assert.NoError(t, err)
	assert.Equal(t, "Mock interviews", offer.Title)
	assert.Equal(t, model.OfferStatusActive, offer.Status)
}

func TestGetAllOffers_OnlyActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT .* FROM allthrive.offers WHERE status = 'active'").
		WithArgs(20, 0).
		WillReturnRows(offerRows().AddRow("off_1", "usr_1", "Mock interviews", "", "service",
			false, int64(0), model.PricingOneTime, "", "", model.OfferStatusActive, 0, 0, time.Now(), []byte(`{}`)))

	offers, err := ds.GetAllOffers(context.Background(), 20, 0)
	assert.NoError(t, err)
	assert.Len(t, offers, 1)
}

func TestUpdateOfferStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE allthrive.offers SET status").
		WithArgs("off_missing", model.OfferStatusArchived).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateOfferStatus(context.Background(), "off_missing", model.OfferStatusArchived)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestIncrementOfferViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE allthrive.offers SET view_count").
		WithArgs("off_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.IncrementOfferViews(context.Background(), "off_1")
	assert.NoError(t, err)
}
