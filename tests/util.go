package testutil

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SigningKey signs the tokens used across the test suites. The client
// never verifies signatures, but the mock API does.
var SigningKey = []byte("notas.tests.signing-key")

// MakeToken builds a signed bearer token carrying the claims the real
// API encodes: subject email, user id, display name and role.
func MakeToken(t *testing.T, userID int, email, name, role string) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     email,
		"user_id": userID,
		"nombre":  name,
		"rol":     role,
		"iat":     now.Unix(),
		"exp":     now.Add(8 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	return token
}

// NopLogger discards everything; keeps test output clean.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}
