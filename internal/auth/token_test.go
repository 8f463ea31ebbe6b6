package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func TestTokenManagerIssueVerify(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))

	token, exp, err := tm.Issue(Claims{
		Subject: "user-1",
		Extra:   map[string]string{"email": "a@x.com"},
	}, time.Hour)
	require.NoError(t, err)
	assert.True(t, exp.Equal(clock.t.Add(time.Hour)))
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectID("user-1"), claims.Subject)
	assert.Equal(t, "a@x.com", claims.Extra["email"])
	assert.True(t, claims.IssuedAt.Equal(clock.t))
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestTokenManagerTokensAreUnique(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))

	first, _, err := tm.Issue(Claims{Subject: "user-1"}, time.Hour)
	require.NoError(t, err)
	second, _, err := tm.Issue(Claims{Subject: "user-1"}, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenManagerExpiry(t *testing.T) {
	t.Run("zero ttl", func(t *testing.T) {
		tm := NewTokenManager(testSecret, WithClock(newTestClock().Now))
		token, _, err := tm.Issue(Claims{Subject: "user-1"}, 0)
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("clock advanced past exp", func(t *testing.T) {
		clock := newTestClock()
		tm := NewTokenManager(testSecret, WithClock(clock.Now))
		token, _, err := tm.Issue(Claims{Subject: "user-1"}, time.Minute)
		require.NoError(t, err)

		clock.Advance(59 * time.Second)
		_, err = tm.Verify(token)
		require.NoError(t, err)

		clock.Advance(time.Second)
		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	clock := newTestClock()
	issuer := NewTokenManager([]byte("some-other-secret-of-enough-length"), WithClock(clock.Now))
	verifier := NewTokenManager(testSecret, WithClock(clock.Now))

	token, _, err := issuer.Issue(Claims{Subject: "user-1"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenManagerSignatureCheckedBeforeExpiry(t *testing.T) {
	clock := newTestClock()
	issuer := NewTokenManager([]byte("some-other-secret-of-enough-length"), WithClock(clock.Now))
	verifier := NewTokenManager(testSecret, WithClock(clock.Now))

	token, _, err := issuer.Issue(Claims{Subject: "user-1"}, 0)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestTokenManagerSingleByteMutation(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))
	token, _, err := tm.Issue(Claims{Subject: "user-1", Extra: map[string]string{"email": "a@x.com"}}, time.Hour)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}

		_, err := tm.Verify(string(mutated))
		require.Error(t, err, "mutation at %d verified", i)
		assert.True(t, isTokenRejection(err), "mutation at %d: unexpected error %v", i, err)
	}
}

func TestTokenManagerRejectsTamperedClaims(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))
	token, _, err := tm.Issue(Claims{Subject: "user-1"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	body["sub"] = "user-2"
	forged, err := json.Marshal(body)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = tm.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenManagerRejectsOtherAlgorithms(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))
	claims := jwt.MapClaims{"sub": "user-1", "iat": clock.t.Unix(), "exp": clock.t.Add(time.Hour).Unix()}

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("HS512 with the same secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrBadSignature)
	})
}

func TestTokenManagerMalformed(t *testing.T) {
	tm := NewTokenManager(testSecret, WithClock(newTestClock().Now))

	for name, token := range map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   "abc.def",
		"four segments":  "a.b.c.d",
		"bad base64":     "!!!.@@@.###",
		"not json":       base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".e30.sig",
		"padded base64":  "eyJhbGciOiJIUzI1NiJ9==.e30.sig",
		"whitespace":     "   ",
		"standard b64+/": "ab+/.cd+/.ef+/",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Verify(token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestTokenManagerRequiresSubject(t *testing.T) {
	clock := newTestClock()
	tm := NewTokenManager(testSecret, WithClock(clock.Now))
	token, _, err := tm.Issue(Claims{}, time.Hour)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrMalformed)
}

func isTokenRejection(err error) bool {
	return errors.Is(err, ErrBadSignature) || errors.Is(err, ErrMalformed)
}
