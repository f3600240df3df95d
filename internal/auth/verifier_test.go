package auth

import (
	"context"
	"errors"
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{"Valid", "Bearer abc123", "abc123", nil},
		{"CaseInsensitiveScheme", "bearer abc123", "abc123", nil},
		{"Missing", "", "", ErrMissingAuthHeader},
		{"WrongScheme", "Basic abc123", "", ErrMalformedAuthHeader},
		{"NoToken", "Bearer", "", ErrMalformedAuthHeader},
		{"EmptyToken", "Bearer ", "", ErrMalformedAuthHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ExtractBearerToken() error = %v, want %v", err, tt.wantErr)
			}
			if token != tt.wantToken {
				t.Errorf("ExtractBearerToken() = %q, want %q", token, tt.wantToken)
			}
		})
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{SubjectID: "sub-1", Email: "a@b.c"})

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		t.Fatal("expected principal in context")
	}
	if principal.SubjectID != "sub-1" || principal.Email != "a@b.c" {
		t.Errorf("unexpected principal: %+v", principal)
	}

	if _, ok := GetPrincipalFromContext(context.Background()); ok {
		t.Error("expected no principal in empty context")
	}
}
