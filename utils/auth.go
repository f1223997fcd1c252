// utils/auth.go
package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"laundromat-backend/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextUser      = "user"
	ContextSessionID = "sessionId"
)

// Hash password
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// sessionClaims is what the session cookie carries.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for an issued session.
func GenerateToken(session Session, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session secret not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.User,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the session id.
func ParseToken(tokenString string, secret []byte) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrSessionNotFound
	}
	if claims.SessionID == "" {
		return "", models.ErrSessionNotFound
	}
	return claims.SessionID, nil
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		return tokenString[7:]
	}
	return ""
}

// Auth middleware
func AuthMiddleware(sessions *SessionManager, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Resolve(TokenFromRequest(c, sessions.CookieName()))
		if err != nil {
			RespondWithServiceError(c, log, &models.AuthError{Reason: "no valid session", Err: err}, "Unauthorized")
			return
		}

		c.Set(ContextUser, session.User)
		c.Set(ContextSessionID, session.ID)
		c.Next()
	}
}

// SetSessionCookie writes the session token, or clears it when token is empty.
func SetSessionCookie(c *gin.Context, sessions *SessionManager, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		sessions.CookieName(),
		token,
		maxAge,
		"/",
		"",
		sessions.Secure(),
		true,
	)
}
