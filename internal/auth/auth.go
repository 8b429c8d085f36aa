// Package auth verifies bearer credentials and exposes the caller's identity
// to downstream handlers. It never issues or refreshes tokens.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// TokenCookieName is the cookie the web client stores its JWT in, checked
// when no Authorization header is present.
const TokenCookieName = "JWT_TOKEN"

type contextKey struct{}

var identityKey contextKey

// Claims are the token claims this service cares about. The subject is the
// caller's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier validates HS512-signed tokens against a shared secret.
type Verifier struct {
	secret []byte
	log    *logrus.Logger
}

// NewVerifier creates a Verifier. Secret length is enforced at config
// validation time, before this is reached.
func NewVerifier(secret string, log *logrus.Logger) *Verifier {
	return &Verifier{secret: []byte(secret), log: log}
}

// Subject parses and validates the token, returning the subject claim.
func (v *Verifier) Subject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.New("invalid claims")
	}
	if claims.Subject == "" {
		return "", errors.New("missing subject claim")
	}
	return claims.Subject, nil
}

// Middleware guards routes: it rejects requests without a valid token and
// stores the verified identity in the request context.
func (v *Verifier) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				unauthorized(w, "Missing JWT")
				return
			}

			subject, err := v.Subject(token)
			if err != nil {
				v.log.WithError(err).WithField("path", r.URL.Path).Warn("token validation failed")
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "Token expired")
					return
				}
				unauthorized(w, fmt.Sprintf("Invalid token: %v", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), subject)))
		})
	}
}

// WithIdentity stores the caller's identity in the context.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey, email)
}

// Identity returns the caller's identity set by the middleware, or "".
func Identity(ctx context.Context) string {
	email, _ := ctx.Value(identityKey).(string)
	return email
}

func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return auth[len("Bearer "):]
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
