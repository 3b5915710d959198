package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acamposr/devjobs-be/internal/models"
)

// Claims defines the JWT claims structure. The token is only a transport
// for the session binding: validation additionally requires the session to
// still exist in the store, so logout revokes it immediately.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	UserID    string
	SessionID string
}

type contextKey string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey = contextKey("principal")

// TokenManager signs and validates session cookies.
type TokenManager struct {
	key           []byte
	authenticator *Authenticator
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret string, authenticator *Authenticator) *TokenManager {
	return &TokenManager{key: []byte(secret), authenticator: authenticator}
}

// Generate creates a signed token for a session.
func (m *TokenManager) Generate(userID, sessionID string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Validate parses and validates a token string.
func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware protects routes. It accepts the token from the Authorization
// header or the session cookie, validates the signature, and then checks
// that the session binding still exists before letting the request through.
func (m *TokenManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				cookie, err := r.Cookie("token")
				if err != nil {
					http.Error(w, "Missing auth token", http.StatusUnauthorized)
					return
				}
				tokenStr = cookie.Value
			}

			// 3. Validate the signature
			claims, err := m.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			// 4. The session must still be bound; a logged-out session
			// carries a perfectly signed but useless token.
			userID, ok := m.authenticator.IsAuthenticated(r.Context(), claims.SessionID)
			if !ok || userID != claims.UserID {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			// 5. Pass the principal down via context
			principal := Principal{UserID: claims.UserID, SessionID: claims.SessionID}
			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated principal, failing closed
// when the middleware did not run.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	principal, ok := ctx.Value(PrincipalKey).(Principal)
	if !ok || principal.UserID == "" {
		return Principal{}, models.ErrForbidden
	}
	return principal, nil
}
