package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw == "goodtoken" || raw == "revoked" {
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "email": "test@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, raw string) (bool, error) {
	return f.revoked[raw], f.err
}

func serveAuth(t *testing.T, header string, rev RevocationChecker) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}, rev), func(c *gin.Context) {
		claims, ok := Claims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"claims": claims, "token": c.GetString(TokenKey)})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	rw := serveAuth(t, "", nil)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.JSONEq(t, `{"message":"Missing Authorization header."}`, rw.Body.String())
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	for _, h := range []string{"BadHeader", "Bearer ", "Basic abc"} {
		rw := serveAuth(t, h, nil)
		require.Equal(t, http.StatusUnauthorized, rw.Code, h)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rw := serveAuth(t, "Bearer nope", nil)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rw := serveAuth(t, "bearer goodtoken", nil)
	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "goodtoken", got["token"])
	require.Equal(t, "user1", got["claims"].(map[string]interface{})["sub"])
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	rev := &fakeRevocations{revoked: map[string]bool{"revoked": true}}
	rw := serveAuth(t, "Bearer revoked", rev)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.JSONEq(t, `{"message":"Token has been revoked."}`, rw.Body.String())

	rw = serveAuth(t, "Bearer goodtoken", rev)
	require.Equal(t, http.StatusOK, rw.Code)
}

func TestAuthMiddleware_RevocationFailureFallsThrough(t *testing.T) {
	rw := serveAuth(t, "Bearer goodtoken", &fakeRevocations{err: errors.New("redis down")})
	require.Equal(t, http.StatusOK, rw.Code)
}
