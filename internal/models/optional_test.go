package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"accountd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpdate_DistinguishesAbsentNullAndValue(t *testing.T) {
	var update models.UserUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"full_name": null, "is_active": false, "email": "a@b.test"}`), &update))

	assert.False(t, update.FullName.Set)
	assert.False(t, update.Password.Set)
	assert.True(t, update.IsActive.Set)
	assert.False(t, update.IsActive.Value)
	assert.Equal(t, models.Some("a@b.test"), update.Email)
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var update models.UserUpdate
	assert.Error(t, json.Unmarshal([]byte(`{"is_active": "yes"}`), &update))
}

func TestOptional_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A models.Optional[string] `json:"a"`
		B models.Optional[int]    `json:"b"`
	}{A: models.Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))
}

func TestFieldErrors(t *testing.T) {
	err := error(models.FieldErrors{"password": "is required", "email": "must be a valid email address"})

	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, "validation failed: email: must be a valid email address; password: is required", err.Error())
}

func TestUserResponseOmitsPassword(t *testing.T) {
	user := models.User{ID: 1, Username: "demo", Email: "demo@example.com", HashedPassword: "$2a$10$secret", IsActive: true}

	out, err := json.Marshal(user.ToResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"username":"demo","email":"demo@example.com","full_name":null,"is_active":true}`, string(out))

	out, err = json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
}

func TestNewTokenResponse(t *testing.T) {
	assert.Equal(t, models.TokenResponse{AccessToken: "abc", TokenType: "bearer"}, models.NewTokenResponse("abc"))
}

func TestOptional_ValidationValue(t *testing.T) {
	absent := models.Optional[string]{}.ValidationValue()
	ptr, ok := absent.(*string)
	require.True(t, ok)
	assert.Nil(t, ptr)

	present := models.Some("").ValidationValue()
	ptr, ok = present.(*string)
	require.True(t, ok)
	require.NotNil(t, ptr)
	assert.Equal(t, "", *ptr)
}
