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

func (d Datasource) CreateAsk(ask model.Ask) (model.Ask, error) {
	metaDataJSON, err := json.Marshal(ask.MetaData)
	if err != nil {
		return model.Ask{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	ask.AskID = model.GenerateUUIDWithSuffix("ask")
	ask.CreatedAt = time.Now()
	if ask.Status == "" {
		ask.Status = model.AskStatusOpen
	}

	_, err = d.Conn.Exec(`
		INSERT INTO allthrive.asks
			(ask_id, creator_id, title, description, ask_type, budget_min_cents, budget_max_cents, status, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ask.AskID, ask.CreatorID, ask.Title, ask.Description, ask.AskType,
		ask.BudgetMinCents, ask.BudgetMaxCents, ask.Status, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "foreign_key_violation":
				return model.Ask{}, apierror.NewAPIError(apierror.ErrNotFound, "Creator does not exist", err)
			case "check_violation":
				return model.Ask{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Ask failed a database constraint", err)
			default:
				return model.Ask{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Ask{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create ask", err)
	}

	return ask, nil
}

const askColumns = `
	ask_id, creator_id, title, description, ask_type, budget_min_cents, budget_max_cents,
	status, response_count, created_at, meta_data
`

func scanAsk(row interface{ Scan(...interface{}) error }) (*model.Ask, error) {
	ask := model.Ask{}
	var metaDataJSON []byte
	err := row.Scan(&ask.AskID, &ask.CreatorID, &ask.Title, &ask.Description, &ask.AskType,
		&ask.BudgetMinCents, &ask.BudgetMaxCents, &ask.Status, &ask.ResponseCount, &ask.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metaDataJSON, &ask.MetaData); err != nil {
		return nil, err
	}
	return &ask, nil
}

func (d Datasource) GetAskByID(ctx context.Context, id string) (*model.Ask, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+askColumns+`
		FROM allthrive.asks
		WHERE ask_id = $1
	`, id)

	ask, err := scanAsk(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Ask not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ask", err)
	}
	return ask, nil
}

func (d Datasource) GetAllAsks(ctx context.Context, limit, offset int) ([]model.Ask, error) {
	cacheKey := fmt.Sprintf("asks:open:%d:%d", limit, offset)

	var cached []model.Ask
	if d.Cache != nil {
		if err := d.Cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+askColumns+`
		FROM allthrive.asks
		WHERE status = 'open'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve asks", err)
	}
	defer rows.Close()

	asks, err := collectAsks(rows)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil && len(asks) > 0 {
		if err := d.Cache.Set(ctx, cacheKey, asks, time.Minute); err != nil {
			log.Printf("Failed to cache asks: %v", err)
		}
	}

	return asks, nil
}

func (d Datasource) GetAsksByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Ask, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+askColumns+`
		FROM allthrive.asks
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, creatorID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve asks", err)
	}
	defer rows.Close()

	return collectAsks(rows)
}

func collectAsks(rows *sql.Rows) ([]model.Ask, error) {
	asks := []model.Ask{}
	for rows.Next() {
		ask, err := scanAsk(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ask data", err)
		}
		asks = append(asks, *ask)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over asks", err)
	}
	return asks, nil
}

func (d Datasource) UpdateAsk(ctx context.Context, ask *model.Ask) error {
	metaDataJSON, err := json.Marshal(ask.MetaData)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.asks
		SET title = $2, description = $3, ask_type = $4, budget_min_cents = $5,
			budget_max_cents = $6, status = $7, meta_data = $8
		WHERE ask_id = $1
	`, ask.AskID, ask.Title, ask.Description, ask.AskType, ask.BudgetMinCents,
		ask.BudgetMaxCents, ask.Status, metaDataJSON)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "check_violation" {
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Ask failed a database constraint", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update ask", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Ask not found", nil)
	}
	return nil
}

func (d Datasource) UpdateAskStatus(ctx context.Context, id, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.asks SET status = $2 WHERE ask_id = $1
	`, id, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update ask status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Ask not found", nil)
	}
	return nil
}
