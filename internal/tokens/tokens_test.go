package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	secret := "test-secret-32-bytes-should-be-long-enough"
	tokenStr, err := GenerateAccessToken(secret, "user-123", "Test User", 2*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(secret, tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims["sub"])
	require.Equal(t, "Test User", claims["name"])
}

func TestGenerateAccessToken_EmptySecret(t *testing.T) {
	_, err := GenerateAccessToken("", "u", "", time.Minute)
	require.ErrorIs(t, err, ErrNoSecret)
	_, err = ParseAccessToken("", "a.b.c")
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestParseAccessToken_Expired(t *testing.T) {
	secret := "another-secret-32-bytes-longgggg"
	tokenStr, err := GenerateAccessToken(secret, "u2", "", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, tokenStr)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAccessToken_WrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken("secret-one-32-bytes-xxxxxxxxxxxxxxxx", "u3", "Bob", 2*time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("different-secret-xxxxxxxxxxxxxxxx", tokenStr)
	require.Error(t, err)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	_, err := ParseAccessToken("x", "not.a.jwt")
	require.Error(t, err)
}

func TestParseAccessToken_AlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := ParseAccessToken("x", headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestParseAccessToken_MissingExpRejected(t *testing.T) {
	secret := "no-exp-secret-32-bytes-xxxxxxxxxxx"
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, raw)
	require.ErrorIs(t, err, ErrNoExpiry)
}

func TestParseAccessToken_TamperedPayload(t *testing.T) {
	secret := "tamper-test-secret-32-bytes-xxxxxxx"
	tokenStr, err := GenerateAccessToken(secret, "user-t", "Tamper", 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	_, err = ParseAccessToken(secret, strings.Join(parts, "."))
	require.Error(t, err)
}
