package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
)

// balanceColumn maps a ledger currency to the users column holding its
// running balance.
func balanceColumn(currency string) (string, error) {
	switch currency {
	case model.CurrencyPoints:
		return "points_balance", nil
	case model.CurrencyCredits:
		return "credit_balance", nil
	default:
		return "", apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown currency: %s", currency), nil)
	}
}

// applyLedgerEntry moves the user's balance and appends the ledger row in
// the caller's transaction. The conditional UPDATE refuses to take a
// balance negative, and the unique index on reference makes replays a
// conflict. The updated balance is written back as BalanceAfter.
func applyLedgerEntry(ctx context.Context, tx *sql.Tx, txn *model.CreditTransaction) error {
	column, err := balanceColumn(txn.Currency)
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE allthrive.users
		SET `+column+` = `+column+` + $2
		WHERE user_id = $1 AND `+column+` + $2 >= 0
		RETURNING `+column+`
	`, txn.UserID, txn.Amount).Scan(&txn.BalanceAfter)
	if err != nil {
		if err == sql.ErrNoRows {
			return apierror.NewAPIError(apierror.ErrInsufficientFunds, "Insufficient balance for transaction", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update balance", err)
	}

	metaDataJSON, err := json.Marshal(txn.MetaData)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	txn.TransactionID = model.GenerateUUIDWithSuffix("txn")
	txn.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.credit_transactions
			(transaction_id, user_id, counterparty_id, connection_id, amount, currency,
			 reason, reference, balance_after, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, txn.TransactionID, txn.UserID, nullString(txn.CounterpartyID), nullString(txn.ConnectionID),
		txn.Amount, txn.Currency, txn.Reason, txn.Reference, txn.BalanceAfter, metaDataJSON)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with reference '%s' already exists", txn.Reference), err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}
	return nil
}

// RecordCreditTransaction appends a single ledger entry, moving the
// affected balance atomically.
func (d Datasource) RecordCreditTransaction(ctx context.Context, txn *model.CreditTransaction) (*model.CreditTransaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := applyLedgerEntry(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}
	return txn, nil
}

const transactionColumns = `
	id, transaction_id, user_id, counterparty_id, connection_id, amount, currency,
	reason, reference, balance_after, created_at, meta_data
`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*model.CreditTransaction, error) {
	txn := model.CreditTransaction{}
	var counterpartyID, connectionID sql.NullString
	var metaDataJSON []byte
	err := row.Scan(&txn.ID, &txn.TransactionID, &txn.UserID, &counterpartyID, &connectionID,
		&txn.Amount, &txn.Currency, &txn.Reason, &txn.Reference, &txn.BalanceAfter,
		&txn.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}
	txn.CounterpartyID = counterpartyID.String
	txn.ConnectionID = connectionID.String
	if err := json.Unmarshal(metaDataJSON, &txn.MetaData); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (d Datasource) GetTransactionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM allthrive.credit_transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer rows.Close()

	transactions := []model.CreditTransaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction data", err)
		}
		transactions = append(transactions, *txn)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transactions", err)
	}
	return transactions, nil
}

func (d Datasource) TransactionExistsByRef(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM allthrive.credit_transactions WHERE reference = $1)
	`, reference).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check transaction reference", err)
	}
	return exists, nil
}

// ConvertPoints burns points and mints credits as a paired set of ledger
// rows sharing one conversion reference. Both legs land in the same
// transaction so a crash cannot leave points gone without credits minted.
func (d Datasource) ConvertPoints(ctx context.Context, userID string, points, credits int64) ([]model.CreditTransaction, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	reference := model.GenerateUUIDWithSuffix("conv")

	debit := &model.CreditTransaction{
		UserID:    userID,
		Amount:    -points,
		Currency:  model.CurrencyPoints,
		Reason:    model.ReasonConversion,
		Reference: reference + ":points",
	}
	if err := applyLedgerEntry(ctx, tx, debit); err != nil {
		return nil, err
	}

	credit := &model.CreditTransaction{
		UserID:    userID,
		Amount:    credits,
		Currency:  model.CurrencyCredits,
		Reason:    model.ReasonConversion,
		Reference: reference + ":credits",
	}
	if err := applyLedgerEntry(ctx, tx, credit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit conversion", err)
	}
	return []model.CreditTransaction{*debit, *credit}, nil
}

// CreatePointGift moves points from sender to recipient and records the
// gift, all in one transaction. The sender's conditional debit is what
// rejects gifts beyond their balance.
func (d Datasource) CreatePointGift(ctx context.Context, gift *model.PointGift) (*model.PointGift, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	gift.GiftID = model.GenerateUUIDWithSuffix("gift")
	gift.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.point_gifts (gift_id, sender_id, recipient_id, amount, message)
		VALUES ($1, $2, $3, $4, $5)
	`, gift.GiftID, gift.SenderID, gift.RecipientID, gift.Amount, gift.Message)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Sender or recipient does not exist", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create point gift", err)
	}

	debit := &model.CreditTransaction{
		UserID:         gift.SenderID,
		CounterpartyID: gift.RecipientID,
		Amount:         -gift.Amount,
		Currency:       model.CurrencyPoints,
		Reason:         model.ReasonPointGift,
		Reference:      gift.GiftID + ":sent",
	}
	if err := applyLedgerEntry(ctx, tx, debit); err != nil {
		return nil, err
	}

	credit := &model.CreditTransaction{
		UserID:         gift.RecipientID,
		CounterpartyID: gift.SenderID,
		Amount:         gift.Amount,
		Currency:       model.CurrencyPoints,
		Reason:         model.ReasonPointGift,
		Reference:      gift.GiftID + ":received",
	}
	if err := applyLedgerEntry(ctx, tx, credit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit point gift", err)
	}
	return gift, nil
}

// CreateEndorsement records the endorsement and awards the endorsee their
// points in one transaction. One endorsement per (endorser, endorsee,
// skill) tuple is enforced by a unique index.
func (d Datasource) CreateEndorsement(ctx context.Context, endorsement *model.Endorsement) (*model.Endorsement, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	endorsement.EndorsementID = model.GenerateUUIDWithSuffix("end")
	endorsement.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.endorsements (endorsement_id, endorser_id, endorsee_id, skill, connection_id)
		VALUES ($1, $2, $3, $4, $5)
	`, endorsement.EndorsementID, endorsement.EndorserID, endorsement.EndorseeID,
		endorsement.Skill, nullString(endorsement.ConnectionID))
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Skill already endorsed for this user", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Endorser or endorsee does not exist", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create endorsement", err)
	}

	award := &model.CreditTransaction{
		UserID:         endorsement.EndorseeID,
		CounterpartyID: endorsement.EndorserID,
		ConnectionID:   endorsement.ConnectionID,
		Amount:         model.PointsEndorsementReceived,
		Currency:       model.CurrencyPoints,
		Reason:         model.ReasonEndorsement,
		Reference:      endorsement.EndorsementID,
	}
	if err := applyLedgerEntry(ctx, tx, award); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit endorsement", err)
	}
	return endorsement, nil
}

// CreateBadgeAward records the badge and awards the recipient's points in
// one transaction.
func (d Datasource) CreateBadgeAward(ctx context.Context, badgeAward *model.PeerBadgeAward) (*model.PeerBadgeAward, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	badgeAward.AwardID = model.GenerateUUIDWithSuffix("badge")
	badgeAward.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.peer_badge_awards (award_id, awarder_id, recipient_id, badge)
		VALUES ($1, $2, $3, $4)
	`, badgeAward.AwardID, badgeAward.AwarderID, badgeAward.RecipientID, badgeAward.Badge)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Badge already awarded to this user", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Awarder or recipient does not exist", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create badge award", err)
	}

	award := &model.CreditTransaction{
		UserID:         badgeAward.RecipientID,
		CounterpartyID: badgeAward.AwarderID,
		Amount:         model.PointsBadgeReceived,
		Currency:       model.CurrencyPoints,
		Reason:         model.ReasonBadgeAward,
		Reference:      badgeAward.AwardID,
	}
	if err := applyLedgerEntry(ctx, tx, award); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit badge award", err)
	}
	return badgeAward, nil
}
