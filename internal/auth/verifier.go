package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	// ErrMissingAuthHeader is returned when no Authorization header is present.
	ErrMissingAuthHeader = errors.New("authorization header required")
	// ErrMalformedAuthHeader is returned when the header is not "Bearer <token>".
	ErrMalformedAuthHeader = errors.New("malformed authorization header (expected: Bearer <token>)")
)

// Principal is the authenticated identity derived from a verified
// credential. It lives only for the duration of one request.
type Principal struct {
	SubjectID string
	Email     string
}

// TokenVerifier validates a raw bearer token and returns the verified
// principal. The production implementation delegates to Google's ID-token
// verification; tests substitute a stub.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// GoogleVerifier verifies Google-issued ID tokens against a configured
// audience (the OAuth client ID of the calling application).
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier creates a verifier for the given audience.
func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{audience: audience}
}

// Verify validates the token signature, expiry and audience. Claims that
// are absent from a valid token yield empty Principal fields rather than
// an error; every request re-verifies, nothing is cached.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	principal := &Principal{SubjectID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		principal.Email = email
	}
	return principal, nil
}

// ExtractBearerToken pulls the raw token out of an Authorization header
// value. The scheme comparison is case-insensitive, matching common
// client behavior.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}
