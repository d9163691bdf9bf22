package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUtil() *JWTUtil {
	return NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
}

func TestMasterTokenRoundTrip(t *testing.T) {
	util := newTestUtil()

	token, err := util.GenerateMasterToken("owner@acme.com", 42)
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.com", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, ScopeMaster, claims.Scope)
	assert.Empty(t, claims.Subdomain)
}

func TestTenantTokenRoundTrip(t *testing.T) {
	util := newTestUtil()

	token, err := util.GenerateTenantToken("waiter@acme.com", 7, 2, "acme")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "waiter@acme.com", claims.Email)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(2), claims.RoleID)
	assert.Equal(t, "acme", claims.Subdomain)
	assert.Equal(t, ScopeTenant, claims.Scope)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := newTestUtil().GenerateMasterToken("owner@acme.com", 1)
	require.NoError(t, err)

	other := NewJWTUtil(&JWTConfig{SigningKey: "a-different-key", ExpirationHours: 1})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})

	token, err := util.GenerateMasterToken("owner@acme.com", 1)
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	util := newTestUtil()
	token, err := util.GenerateMasterToken("owner@acme.com", 1)
	require.NoError(t, err)

	_, err = util.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestUtil().ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	util := NewJWTUtil(nil)

	_, err := util.GenerateMasterToken("owner@acme.com", 1)
	assert.Error(t, err)

	_, err = util.ValidateToken("whatever")
	assert.Error(t, err)
}
