package database

import (
	"context"
	"time"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
)

// CreateFollow inserts the edge and bumps both counter columns in one
// transaction so follower_count and following_count never drift from the
// edge table.
func (d Datasource) CreateFollow(ctx context.Context, follow *model.Follow) (*model.Follow, error) {
	follow.FollowID = model.GenerateUUIDWithSuffix("flw")
	follow.CreatedAt = time.Now()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allthrive.follows (follow_id, follower_id, followed_id)
		VALUES ($1, $2, $3)
	`, follow.FollowID, follow.FollowerID, follow.FollowedID)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Already following this user", err)
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "User does not exist", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create follow", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE allthrive.users SET follower_count = follower_count + 1 WHERE user_id = $1
	`, follow.FollowedID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update follower count", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE allthrive.users SET following_count = following_count + 1 WHERE user_id = $1
	`, follow.FollowerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update following count", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit follow", err)
	}
	return follow, nil
}

// DeleteFollow removes the edge and decrements both counters. Unfollowing
// someone you never followed is a not found.
func (d Datasource) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM allthrive.follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete follow", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check delete result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Follow relationship not found", nil)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE allthrive.users SET follower_count = follower_count - 1 WHERE user_id = $1
	`, followedID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update follower count", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE allthrive.users SET following_count = following_count - 1 WHERE user_id = $1
	`, followerID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update following count", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit unfollow", err)
	}
	return nil
}

// qualifiedUserColumns disambiguates the shared created_at column when
// joining against the follows table.
const qualifiedUserColumns = `
	u.user_id, u.username, u.display_name, u.bio, u.phone_number, u.sms_opt_in,
	u.helped_count, u.points_balance, u.credit_balance, u.follower_count, u.following_count,
	u.created_at, u.meta_data
`

func (d Datasource) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]model.User, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+qualifiedUserColumns+`
		FROM allthrive.users u
		JOIN allthrive.follows f ON f.followed_id = u.user_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve following", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (d Datasource) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]model.User, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+qualifiedUserColumns+`
		FROM allthrive.users u
		JOIN allthrive.follows f ON f.follower_id = u.user_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve followers", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (d Datasource) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM allthrive.follows WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID).Scan(&exists)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check follow status", err)
	}
	return exists, nil
}
