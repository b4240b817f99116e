package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekExpiry decodes a JWT without verifying its signature and returns
// the exp claim. The probe never validates tokens (the target service
// does that); this exists only to warn the user up front when the
// token they supplied is already expired. Opaque non-JWT tokens return
// an error and are used as-is.
func PeekExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("token is not a decodable JWT: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("token has no usable exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return exp.Time, nil
}

// Expired reports whether the token is a JWT whose exp claim lies in
// the past. Tokens that cannot be decoded are never reported expired.
func Expired(token string, now time.Time) bool {
	exp, err := PeekExpiry(token)
	if err != nil {
		return false
	}
	return exp.Before(now)
}
