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

func (d Datasource) CreateUser(user model.User) (model.User, error) {
	metaDataJSON, err := json.Marshal(user.MetaData)
	if err != nil {
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	user.UserID = model.GenerateUUIDWithSuffix("usr")
	user.CreatedAt = time.Now()

	_, err = d.Conn.Exec(`
		INSERT INTO allthrive.users (user_id, username, display_name, bio, phone_number, sms_opt_in, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.UserID, user.Username, user.DisplayName, user.Bio, user.PhoneNumber, user.SMSOptIn, metaDataJSON)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.User{}, apierror.NewAPIError(apierror.ErrConflict, "User with this username already exists", err)
			default:
				return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create user", err)
	}

	return user, nil
}

const userColumns = `
	user_id, username, display_name, bio, phone_number, sms_opt_in,
	helped_count, points_balance, credit_balance, follower_count, following_count,
	created_at, meta_data
`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := model.User{}
	var metaDataJSON []byte
	err := row.Scan(&user.UserID, &user.Username, &user.DisplayName, &user.Bio, &user.PhoneNumber, &user.SMSOptIn,
		&user.HelpedCount, &user.PointsBalance, &user.CreditBalance, &user.FollowerCount, &user.FollowingCount,
		&user.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metaDataJSON, &user.MetaData); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d Datasource) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM allthrive.users
		WHERE user_id = $1
	`, id)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "User not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}

func (d Datasource) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM allthrive.users
		WHERE username = $1
	`, username)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "User not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return user, nil
}

func (d Datasource) GetAllUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM allthrive.users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve users", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan user data", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over users", err)
	}
	return users, nil
}

func (d Datasource) UpdateUser(ctx context.Context, user *model.User) error {
	metaDataJSON, err := json.Marshal(user.MetaData)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE allthrive.users
		SET display_name = $2, bio = $3, phone_number = $4, sms_opt_in = $5, meta_data = $6
		WHERE user_id = $1
	`, user.UserID, user.DisplayName, user.Bio, user.PhoneNumber, user.SMSOptIn, metaDataJSON)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check update result", err)
	}
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "User not found", nil)
	}
	return nil
}
