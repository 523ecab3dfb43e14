package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clinic-management-server/internal/config"
	"clinic-management-server/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: 10}
	user := &models.User{
		ID:       primitive.NewObjectID(),
		UserName: "frontdesk",
		Role:     models.RoleReception,
	}

	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleReception, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: 10}
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleOwner}

	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "not-the-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: -10}
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleDoctor}

	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, cfg.JWTSecret)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.jwt", "secret")
	assert.Error(t, err)
}
