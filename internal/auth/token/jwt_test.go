package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/agencydesk/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	v, err := NewVerifier("s3cret", "https://id.agency.test")
	require.NoError(t, err)

	raw, err := v.Issue("auth0|abc", "ops@agency.test", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", claims.Subject)
	assert.Equal(t, "ops@agency.test", claims.Email)
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, err := NewVerifier("s3cret", "")
	require.NoError(t, err)

	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return issuedAt }
	raw, err := v.Issue("auth0|abc", "", time.Minute)
	require.NoError(t, err)

	v.now = func() time.Time { return issuedAt.Add(time.Hour) }
	_, err = v.Verify(raw)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewVerifier("one", "")
	require.NoError(t, err)
	verifier, err := NewVerifier("two", "")
	require.NoError(t, err)

	raw, err := issuer.Issue("auth0|abc", "", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	other, err := NewVerifier("s3cret", "https://other.test")
	require.NoError(t, err)
	v, err := NewVerifier("s3cret", "https://id.agency.test")
	require.NoError(t, err)

	raw, err := other.Issue("auth0|abc", "", time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	v, err := NewVerifier("s3cret", "")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "auth0|abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v, err := NewVerifier("s3cret", "")
	require.NoError(t, err)

	raw, err := v.Issue("", "", time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ", "")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
