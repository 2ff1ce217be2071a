package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestRecordCreditTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.CreditTransaction{
		UserID:    "usr_1",
		Amount:    model.PointsConnectionCompleted,
		Currency:  model.CurrencyPoints,
		Reason:    model.ReasonConnectionCompleted,
		Reference: "conn_1:completed",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", txn.Amount).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(150))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	recorded, err := ds.RecordCreditTransaction(context.Background(), txn)
	assert.NoError(t, err)
	assert.NotEmpty(t, recorded.TransactionID)
	assert.Equal(t, int64(150), recorded.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCreditTransaction_InsufficientBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.CreditTransaction{
		UserID:    "usr_1",
		Amount:    -500,
		Currency:  model.CurrencyPoints,
		Reason:    model.ReasonPointGift,
		Reference: "gift_1:sent",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", txn.Amount).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}))
	mock.ExpectRollback()

	_, err = ds.RecordCreditTransaction(context.Background(), txn)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInsufficientFunds, apiErr.Code)
}

func TestRecordCreditTransaction_DuplicateReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.CreditTransaction{
		UserID:    "usr_1",
		Amount:    model.PointsConnectionCompleted,
		Currency:  model.CurrencyPoints,
		Reason:    model.ReasonConnectionCompleted,
		Reference: "conn_1:completed",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", txn.Amount).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(150))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})
	mock.ExpectRollback()

	_, err = ds.RecordCreditTransaction(context.Background(), txn)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestRecordCreditTransaction_UnknownCurrency(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	txn := &model.CreditTransaction{
		UserID:    "usr_1",
		Amount:    10,
		Currency:  "tokens",
		Reason:    model.ReasonPointGift,
		Reference: "ref_1",
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = ds.RecordCreditTransaction(context.Background(), txn)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
}

func TestConvertPoints_WritesBothLegs(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", int64(-500)).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(100))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"credit_balance"}).AddRow(5))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	legs, err := ds.ConvertPoints(context.Background(), "usr_1", 500, 5)
	assert.NoError(t, err)
	assert.Len(t, legs, 2)
	assert.Equal(t, int64(-500), legs[0].Amount)
	assert.Equal(t, model.CurrencyPoints, legs[0].Currency)
	assert.Equal(t, int64(5), legs[1].Amount)
	assert.Equal(t, model.CurrencyCredits, legs[1].Currency)
	assert.Equal(t, model.ReasonConversion, legs[0].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConvertPoints_InsufficientPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_1", int64(-500)).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}))
	mock.ExpectRollback()

	_, err = ds.ConvertPoints(context.Background(), "usr_1", 500, 5)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInsufficientFunds, apiErr.Code)
}

func TestCreatePointGift_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	gift := &model.PointGift{
		SenderID:    "usr_sender",
		RecipientID: "usr_recipient",
		Amount:      25,
		Message:     "Thanks for the feedback!",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.point_gifts").
		WithArgs(sqlmock.AnyArg(), "usr_sender", "usr_recipient", int64(25), "Thanks for the feedback!").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_sender", int64(-25)).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(75))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_recipient", int64(25)).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(125))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	created, err := ds.CreatePointGift(context.Background(), gift)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.GiftID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePointGift_SenderBroke(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	gift := &model.PointGift{
		SenderID:    "usr_sender",
		RecipientID: "usr_recipient",
		Amount:      1000,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.point_gifts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_sender", int64(-1000)).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}))
	mock.ExpectRollback()

	_, err = ds.CreatePointGift(context.Background(), gift)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInsufficientFunds, apiErr.Code)
}

func TestCreateEndorsement_AwardsPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	endorsement := &model.Endorsement{
		EndorserID: "usr_endorser",
		EndorseeID: "usr_endorsee",
		Skill:      "golang",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.endorsements").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_endorsee", model.PointsEndorsementReceived).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(10))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := ds.CreateEndorsement(context.Background(), endorsement)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.EndorsementID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEndorsement_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	endorsement := &model.Endorsement{
		EndorserID: "usr_endorser",
		EndorseeID: "usr_endorsee",
		Skill:      "golang",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.endorsements").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})
	mock.ExpectRollback()

	_, err = ds.CreateEndorsement(context.Background(), endorsement)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestCreateBadgeAward_AwardsPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	award := &model.PeerBadgeAward{
		AwarderID:   "usr_awarder",
		RecipientID: "usr_recipient",
		Badge:       "generous-helper",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.peer_badge_awards").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE allthrive.users").
		WithArgs("usr_recipient", model.PointsBadgeReceived).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(25))
	mock.ExpectExec("INSERT INTO allthrive.credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := ds.CreateBadgeAward(context.Background(), award)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.AwardID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionExistsByRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("conn_1:completed").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := ds.TransactionExistsByRef(context.Background(), "conn_1:completed")
	assert.NoError(t, err)
	assert.True(t, exists)
}
