package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateConnection inserts the connection and bumps the anchored listing's
// counter inside one transaction. The partial unique indexes on
// (initiator, responder, ask|offer) reject a second active connection for
// the same tuple.
func (d Datasource) CreateConnection(ctx context.Context, conn *model.Connection) (*model.Connection, error) {
	metaDataJSON, err := json.Marshal(conn.MetaData)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	conn.ConnectionID = model.GenerateUUIDWithSuffix("conn")
	conn.Status = model.ConnStatusInitiated
	conn.CreatedAt = time.Now()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.connections
			(connection_id, connection_type, initiator_id, responder_id, ask_id, offer_id,
			 status, initial_message, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, conn.ConnectionID, conn.ConnectionType, conn.InitiatorID, conn.ResponderID,
		nullString(conn.AskID), nullString(conn.OfferID), conn.Status, conn.InitialMessage, metaDataJSON)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "An active connection already exists for this listing", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Referenced user or listing does not exist", err)
			case "check_violation":
				return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Connection failed a database constraint", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create connection", err)
	}

	switch conn.ConnectionType {
	case model.ConnTypeOffer:
		_, err = tx.ExecContext(ctx, `
			UPDATE allthrive.offers SET connection_count = connection_count + 1 WHERE offer_id = $1
		`, conn.OfferID)
	case model.ConnTypeAsk:
		_, err = tx.ExecContext(ctx, `
			UPDATE allthrive.asks SET response_count = response_count + 1 WHERE ask_id = $1
		`, conn.AskID)
	}
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update listing counter", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit connection", err)
	}

	return conn, nil
}

const connectionColumns = `
	connection_id, connection_type, initiator_id, responder_id, ask_id, offer_id,
	status, initial_message, initiator_rating, responder_rating, completed_at, created_at, meta_data
`

func scanConnection(row interface{ Scan(...interface{}) error }) (*model.Connection, error) {
	conn := model.Connection{}
	var askID, offerID sql.NullString
	var completedAt sql.NullTime
	var metaDataJSON []byte
	err := row.Scan(&conn.ConnectionID, &conn.ConnectionType, &conn.InitiatorID, &conn.ResponderID,
		&askID, &offerID, &conn.Status, &conn.InitialMessage, &conn.InitiatorRating, &conn.ResponderRating,
		&completedAt, &conn.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}
	conn.AskID = askID.String
	conn.OfferID = offerID.String
	if completedAt.Valid {
		conn.CompletedAt = &completedAt.Time
	}
	if err := json.Unmarshal(metaDataJSON, &conn.MetaData); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (d Datasource) GetConnectionByID(ctx context.Context, id string) (*model.Connection, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+connectionColumns+`
		FROM allthrive.connections
		WHERE connection_id = $1
	`, id)

	conn, err := scanConnection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Connection not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve connection", err)
	}
	return conn, nil
}

func (d Datasource) GetConnectionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Connection, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+connectionColumns+`
		FROM allthrive.connections
		WHERE initiator_id = $1 OR responder_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve connections", err)
	}
	defer rows.Close()

	connections := []model.Connection{}
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan connection data", err)
		}
		connections = append(connections, *conn)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over connections", err)
	}
	return connections, nil
}

// UpdateConnectionStatus moves a connection to a non-completed status. The
// WHERE clause only matches non-terminal rows, so repeating a PATCH after
// the lifecycle ended changes nothing. Returns whether a row transitioned.
func (d Datasource) UpdateConnectionStatus(ctx context.Context, id, status string) (bool, error) {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.connections
		SET status = $2
		WHERE connection_id = $1
		  AND status NOT IN ('completed', 'declined', 'cancelled')
		  AND status <> $2
	`, id, status)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update connection status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	return rows == 1, nil
}

// CompleteConnection marks the connection completed and bumps the
// responder's helped_count in the same transaction. The conditional UPDATE
// makes a repeated completion PATCH a no-op: helped_count moves exactly
// once per connection.
func (d Datasource) CompleteConnection(ctx context.Context, id string) (bool, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var responderID string
	err = tx.QueryRowContext(ctx, `
		UPDATE allthrive.connections
		SET status = 'completed', completed_at = NOW()
		WHERE connection_id = $1
		  AND status NOT IN ('completed', 'declined', 'cancelled')
		RETURNING responder_id
	`, id).Scan(&responderID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Already terminal; nothing to do.
			return false, nil
		}
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to complete connection", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE allthrive.users SET helped_count = helped_count + 1 WHERE user_id = $1
	`, responderID)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update helped count", err)
	}

	if err := tx.Commit(); err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit completion", err)
	}
	return true, nil
}

// RateConnection records a participant's rating once. The role decides
// which column is written; a second rating from the same side is a
// conflict.
func (d Datasource) RateConnection(ctx context.Context, id string, role model.Role, rating int) error {
	column := "initiator_rating"
	if role == model.RoleResponder {
		column = "responder_rating"
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.connections
		SET `+column+` = $2
		WHERE connection_id = $1
		  AND status = 'completed'
		  AND `+column+` IS NULL
	`, id, rating)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to rate connection", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check rating result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, "Connection is not completed or already rated", nil)
	}
	return nil
}
