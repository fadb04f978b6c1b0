package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmdshop/cmdshop/pkg/logger"
	"github.com/cmdshop/cmdshop/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// defaultRevokeTTL applies to tokens that carry no usable exp claim.
const defaultRevokeTTL = time.Hour

// Revoker persists logged-out tokens.
type Revoker interface {
	Revoke(ctx context.Context, raw string, ttl time.Duration) error
	Enabled() bool
}

// AuthHandler serves the session endpoints around the bearer token gate.
type AuthHandler struct {
	revoker Revoker
	now     func() time.Time
}

func NewAuthHandler(r Revoker) *AuthHandler {
	return &AuthHandler{revoker: r, now: time.Now}
}

// Register routes under /auth. authMW must be the AuthMiddleware guarding
// the cmd routes.
func (h *AuthHandler) Register(rg gin.IRouter, authMW gin.HandlerFunc) {
	a := rg.Group("/auth", authMW)
	a.POST("/logout", h.Logout)
	a.GET("/me", h.Me)
}

// Me returns the verified claims of the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := middleware.Claims(c)
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// Logout revokes the presented access token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker == nil || !h.revoker.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "Token revocation is not configured."})
		return
	}
	raw := c.GetString(middleware.TokenKey)
	claims, _ := middleware.Claims(c)

	ttl := defaultRevokeTTL
	if exp, err := expFromClaims(claims); err == nil {
		ttl = exp.Sub(h.now())
	} else {
		logger.Debugw("logout without exp claim", "err", err)
	}
	if ttl <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
		return
	}
	if err := h.revoker.Revoke(c.Request.Context(), raw, ttl); err != nil {
		logger.Errorw("token revocation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to revoke token."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// expFromClaims reads exp, which arrives as a JSON number in any of the
// shapes the verifiers produce.
func expFromClaims(claims map[string]interface{}) (time.Time, error) {
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	switch vv := v.(type) {
	case float64:
		return time.Unix(int64(vv), 0), nil
	case int64:
		return time.Unix(vv, 0), nil
	case json.Number:
		i64, err := vv.Int64()
		if err != nil {
			f, err2 := vv.Float64()
			if err2 != nil {
				return time.Time{}, err
			}
			return time.Unix(int64(f), 0), nil
		}
		return time.Unix(i64, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported exp type %T", v)
	}
}
