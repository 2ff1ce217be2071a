package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCreateFollow_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	follow := &model.Follow{
		FollowerID: "usr_a",
		FollowedID: "usr_b",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.follows").
		WithArgs(sqlmock.AnyArg(), "usr_a", "usr_b").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE allthrive.users SET follower_count").
		WithArgs("usr_b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE allthrive.users SET following_count").
		WithArgs("usr_a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := ds.CreateFollow(context.Background(), follow)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.FollowID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFollow_AlreadyFollowing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	follow := &model.Follow{
		FollowerID: "usr_a",
		FollowedID: "usr_b",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allthrive.follows").
		WillReturnError(&pq.Error{Code: "23505", Message: "unique_violation"})
	mock.ExpectRollback()

	_, err = ds.CreateFollow(context.Background(), follow)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}

func TestDeleteFollow_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM allthrive.follows").
		WithArgs("usr_a", "usr_b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE allthrive.users SET follower_count").
		WithArgs("usr_b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE allthrive.users SET following_count").
		WithArgs("usr_a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = ds.DeleteFollow(context.Background(), "usr_a", "usr_b")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFollow_NotFollowing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM allthrive.follows").
		WithArgs("usr_a", "usr_b").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = ds.DeleteFollow(context.Background(), "usr_a", "usr_b")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetFollowers_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{
		"user_id", "username", "display_name", "bio", "phone_number", "sms_opt_in",
		"helped_count", "points_balance", "credit_balance", "follower_count", "following_count",
		"created_at", "meta_data",
	}).AddRow("usr_a", "ada", "Ada", "", "", false, 0, 0, 0, 0, 1, time.Now(), []byte(`{}`))

	mock.ExpectQuery("SELECT .* FROM allthrive.users u JOIN allthrive.follows f").
		WithArgs("usr_b", 20, 0).
		WillReturnRows(rows)

	followers, err := ds.GetFollowers(context.Background(), "usr_b", 20, 0)
	assert.NoError(t, err)
	assert.Len(t, followers, 1)
	assert.Equal(t, "ada", followers[0].Username)
}

func TestIsFollowing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("usr_a", "usr_b").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	following, err := ds.IsFollowing(context.Background(), "usr_a", "usr_b")
	assert.NoError(t, err)
	assert.False(t, following)
}
