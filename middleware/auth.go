package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/errors"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const (
	// UserContextKey holds the *models.User of a signed-in caller.
	UserContextKey = "user"
	// AccessTokenCookie is set by the identity provider on login.
	AccessTokenCookie = "access_token"
)

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) user() *models.User {
	return &models.User{
		ID:       c.UserID,
		Email:    c.Email,
		FullName: c.Name,
		IsStaff:  c.Role == "admin" || c.Role == "staff",
	}
}

// NewToken signs an HS256 access token for u.
func NewToken(secret string, u models.User, ttl time.Duration) (string, error) {
	role := "customer"
	if u.IsStaff {
		role = "staff"
	}
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.FullName,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates an access token and returns the user it names.
func ParseToken(secret, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims.user(), nil
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if v, err := c.Cookie(AccessTokenCookie); err == nil {
		return v
	}
	return ""
}

// Identity resolves the caller from the access token when there is one.
// Anonymous shoppers pass through untouched, as does a caller whose token
// does not verify.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFrom(c)
		if raw == "" {
			c.Next()
			return
		}

		user, err := ParseToken(secret, raw)
		if err != nil {
			logger.Debug(c.Request.Context(), "Ignoring invalid access token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(UserContextKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous callers.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Message})
			return
		}
		c.Next()
	}
}

// StaffOnly lets store owners through and nobody else.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Message})
			return
		}
		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Sorry, only store owners can do that."})
			return
		}
		c.Next()
	}
}
