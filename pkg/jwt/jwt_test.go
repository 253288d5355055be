package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	signed, claims, err := GenerateToken(secret, 42, TypeAccess, time.Minute, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(secret, signed, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)

	id, err := parsed.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestParseRejects(t *testing.T) {
	access, _, err := GenerateToken(secret, 1, TypeAccess, time.Minute, time.Now())
	require.NoError(t, err)
	expired, _, err := GenerateToken(secret, 1, TypeAccess, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"sub": "1", "typ": "access"})
	unsigned, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		token  string
		secret []byte
		typ    TokenType
	}{
		"wrong type":   {access, secret, TypeRefresh},
		"wrong secret": {access, []byte("other"), TypeAccess},
		"expired":      {expired, secret, TypeAccess},
		"garbage":      {"not.a.token", secret, TypeAccess},
		"alg none":     {unsigned, secret, TypeAccess},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token, tc.typ)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
