package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesto_service/internal/apperr"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Hour)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("super-secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue("0f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", userID)
}

func TestVerify_BeforeAndAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	svc, err := NewTokenService("secret", 10*time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := svc.Issue("u1")
	require.NoError(t, err)

	clock.t = clock.t.Add(10*time.Minute - time.Second)
	userID, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	clock.t = clock.t.Add(2 * time.Second)
	_, err = svc.Verify(tok)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for _, bit := range []byte{0x01, 0x10, 0x80} {
		flipped := append([]byte(nil), sig...)
		flipped[len(flipped)/2] ^= bit
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

		_, err = svc.Verify(tampered)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	}
}

func TestVerify_FailuresLookAlike(t *testing.T) {
	t.Parallel()

	clock := newClock()
	svc, err := NewTokenService("secret", time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	expired, err := svc.Issue("u1")
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("u1")
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)

	for name, tok := range map[string]string{
		"expired":   expired,
		"foreign":   foreign,
		"malformed": "not.a.jwt",
		"empty":     "",
	} {
		_, err := svc.Verify(tok)
		require.Error(t, err, name)

		status, message := apperr.Response(err)
		assert.Equal(t, 401, status, name)
		assert.Equal(t, apperr.MsgUnauthorized, message, name)
	}
}

func TestVerify_RejectsOtherSigningMethods(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestVerify_RequiresSubjectAndExpiry(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(noSubject)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(noExpiry)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestPasswordHash(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CheckPasswordHash(hash, "secret1"))
	assert.False(t, CheckPasswordHash(hash, "secret2"))
	assert.False(t, CheckPasswordHash("not-a-bcrypt-hash", "secret1"))
}
