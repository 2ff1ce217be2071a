package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("conn")
	assert.True(t, strings.HasPrefix(id, "conn_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("conn"))
}

func TestValidateBudget(t *testing.T) {
	min := int64(1000)
	max := int64(5000)

	ask := Ask{BudgetMinCents: &min, BudgetMaxCents: &max}
	assert.NoError(t, ask.ValidateBudget())

	// Inverted range is rejected.
	bad := Ask{BudgetMinCents: &max, BudgetMaxCents: &min}
	assert.Error(t, bad.ValidateBudget())

	// Single-sided budgets are fine.
	oneSided := Ask{BudgetMinCents: &min}
	assert.NoError(t, oneSided.ValidateBudget())

	neg := int64(-1)
	assert.Error(t, (&Ask{BudgetMinCents: &neg}).ValidateBudget())
}

func TestFollowValidate(t *testing.T) {
	f := Follow{FollowerID: "usr_a", FollowedID: "usr_b"}
	assert.NoError(t, f.Validate())

	self := Follow{FollowerID: "usr_a", FollowedID: "usr_a"}
	assert.Error(t, self.Validate())

	empty := Follow{FollowerID: "usr_a"}
	assert.Error(t, empty.Validate())
}

func TestCreditsForPoints(t *testing.T) {
	credits, err := CreditsForPoints(500)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), credits)

	_, err = CreditsForPoints(400)
	assert.ErrorIs(t, err, ErrBelowConversionMinimum)

	_, err = CreditsForPoints(550)
	assert.ErrorIs(t, err, ErrConversionNotWhole)
}

func TestPointGiftValidate(t *testing.T) {
	g := PointGift{SenderID: "usr_a", RecipientID: "usr_b", Amount: 10}
	assert.NoError(t, g.Validate())

	assert.Error(t, (&PointGift{SenderID: "usr_a", RecipientID: "usr_a", Amount: 10}).Validate())
	assert.Error(t, (&PointGift{SenderID: "usr_a", RecipientID: "usr_b", Amount: 0}).Validate())
}

func TestListingTypes(t *testing.T) {
	assert.True(t, IsValidListingType("mentorship"))
	assert.True(t, IsValidListingType("service"))
	assert.False(t, IsValidListingType("bounty"))
}
