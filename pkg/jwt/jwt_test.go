package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Merenda-api/pkg/jwt"
)

const secret = "secret-de-prueba"

func TestGenerateYParse(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "tenant-1", "gestor", "merenda-api", 60)
	require.NoError(t, err)

	userID, tenantID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "tenant-1", tenantID)
	assert.Equal(t, "gestor", role)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := jwt.Generate(secret, "user-1", "tenant-1", "admin", "merenda-api", -1)
	require.NoError(t, err)
	noTenant, err := jwt.Generate(secret, "user-1", "", "admin", "merenda-api", 60)
	require.NoError(t, err)
	valid, err := jwt.Generate(secret, "user-1", "tenant-1", "admin", "merenda-api", 60)
	require.NoError(t, err)

	t.Run("expirado", func(t *testing.T) {
		_, _, _, err := jwt.Parse(secret, expired)
		assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
	})
	t.Run("otro secret", func(t *testing.T) {
		_, _, _, err := jwt.Parse("otro-secret", valid)
		assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
	})
	t.Run("sin tenant", func(t *testing.T) {
		_, _, _, err := jwt.Parse(secret, noTenant)
		assert.ErrorIs(t, err, jwt.ErrMissingTenant)
	})
	t.Run("secret vacío", func(t *testing.T) {
		_, _, _, err := jwt.Parse("", valid)
		assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	})
	t.Run("algoritmo none", func(t *testing.T) {
		unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"tenant_id": "tenant-1"}).
			SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, _, _, err = jwt.Parse(secret, unsigned)
		assert.Error(t, err)
	})
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "tenant-1", "admin", "merenda-api", 60)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
