package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core/grading"
)

var nowFunc = time.Now // mockable

// Claims is the slice of the bearer token payload the client reads. The
// token is decoded without signature verification: verification is the
// API's job, the client only needs the identity and role for display and
// for gating screens.
type Claims struct {
	jwt.StandardClaims
	UserID int    `json:"user_id"`
	Name   string `json:"nombre,omitempty"`
	Role   string `json:"rol"`
}

// Session is the one persisted record of an authenticated user: identity,
// role and the two timestamps the expiry rules run on.
type Session struct {
	Token        string       `json:"token"`
	UserID       int          `json:"user_id"`
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	Role         grading.Role `json:"role"`
	IssuedAt     time.Time    `json:"issued_at"`
	LastActivity time.Time    `json:"last_activity"`
}

// FromToken builds a Session from a freshly issued bearer token.
func FromToken(token string) (*Session, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "decoding token claims")
	}

	now := nowFunc()
	return &Session{
		Token:        token,
		UserID:       claims.UserID,
		Email:        claims.Subject,
		Name:         claims.Name,
		Role:         grading.Role(claims.Role),
		IssuedAt:     now,
		LastActivity: now,
	}, nil
}

func (s *Session) IsAdmin() bool   { return s.Role.IsAdmin() }
func (s *Session) IsTeacher() bool { return s.Role == grading.RoleTeacher }

// ExpiredAt reports whether the session has gone idle past the timeout
// as of the given instant.
func (s *Session) ExpiredAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}
