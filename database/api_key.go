package database

import (
	"context"
	"database/sql"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
)

func (d Datasource) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO allthrive.api_keys
			(api_key_id, key, name, owner_id, expires_at, created_at, is_revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, key.APIKeyID, key.Key, key.Name, key.OwnerID, key.ExpiresAt, key.CreatedAt, key.IsRevoked)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create API key", err)
	}
	return nil
}

func (d Datasource) GetAPIKeyByKey(ctx context.Context, key string) (*model.APIKey, error) {
	apiKey := model.APIKey{}
	var lastUsedAt, revokedAt sql.NullTime
	err := d.Conn.QueryRowContext(ctx, `
		SELECT api_key_id, key, name, owner_id, expires_at, created_at, last_used_at, is_revoked, revoked_at
		FROM allthrive.api_keys
		WHERE key = $1
	`, key).Scan(&apiKey.APIKeyID, &apiKey.Key, &apiKey.Name, &apiKey.OwnerID,
		&apiKey.ExpiresAt, &apiKey.CreatedAt, &lastUsedAt, &apiKey.IsRevoked, &revokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "API key not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve API key", err)
	}
	if lastUsedAt.Valid {
		apiKey.LastUsedAt = lastUsedAt.Time
	}
	if revokedAt.Valid {
		apiKey.RevokedAt = &revokedAt.Time
	}
	return &apiKey, nil
}

func (d Datasource) ListAPIKeys(ctx context.Context, ownerID string) ([]*model.APIKey, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT api_key_id, key, name, owner_id, expires_at, created_at, last_used_at, is_revoked, revoked_at
		FROM allthrive.api_keys
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list API keys", err)
	}
	defer rows.Close()

	keys := []*model.APIKey{}
	for rows.Next() {
		apiKey := model.APIKey{}
		var lastUsedAt, revokedAt sql.NullTime
		err := rows.Scan(&apiKey.APIKeyID, &apiKey.Key, &apiKey.Name, &apiKey.OwnerID,
			&apiKey.ExpiresAt, &apiKey.CreatedAt, &lastUsedAt, &apiKey.IsRevoked, &revokedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan API key data", err)
		}
		if lastUsedAt.Valid {
			apiKey.LastUsedAt = lastUsedAt.Time
		}
		if revokedAt.Valid {
			apiKey.RevokedAt = &revokedAt.Time
		}
		keys = append(keys, &apiKey)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over API keys", err)
	}
	return keys, nil
}

func (d Datasource) RevokeAPIKey(ctx context.Context, id, ownerID string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.api_keys
		SET is_revoked = true, revoked_at = NOW()
		WHERE api_key_id = $1 AND owner_id = $2 AND is_revoked = false
	`, id, ownerID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to revoke API key", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check revoke result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "API key not found or already revoked", nil)
	}
	return nil
}

func (d Datasource) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.api_keys SET last_used_at = NOW() WHERE api_key_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update API key usage", err)
	}
	return nil
}
