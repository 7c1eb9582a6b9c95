package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIsPasswordStrong(t *testing.T) {
	cases := map[string]bool{
		"John123!":     true,
		"Sup3r$ecret":  true,
		"short1!":      false,
		"alllower123!": false,
		"ALLUPPER123!": false,
		"NoDigits!!":   false,
		"NoSpecial123": false,
	}
	for password, want := range cases {
		assert.Equal(t, want, IsPasswordStrong(password), password)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("John123!")
	require.NoError(t, err)
	assert.NotEqual(t, "John123!", hash)
	assert.True(t, CheckPassword(hash, "John123!"))
	assert.False(t, CheckPassword(hash, "john123!"))
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateResetCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestDistanceKm(t *testing.T) {
	// Accra to Kumasi is roughly 200 km
	d := DistanceKm(5.6037, -0.1870, 6.6885, -1.6244)
	assert.InDelta(t, 200, d, 15)
	assert.InDelta(t, 0, DistanceKm(1, 1, 1, 1), 0.0001)
}

func TestTokenIssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "k1", 30*time.Minute)

	token, expiresAt, err := issuer.Issue("user-1", RoleUser, "a@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, RoleUser, claims.Role)

	enhanced := NewEnhancedClaims(claims)
	assert.True(t, enhanced.IsOwner("user-1"))
	assert.True(t, enhanced.CanActFor("user-1"))
	assert.False(t, enhanced.CanActFor("user-2"))
}

func TestAdminClaimsCanActForAnyone(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "k1", time.Minute)
	token, _, err := issuer.Issue("admin@example.com", RoleAdmin, "admin@example.com")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	enhanced := NewEnhancedClaims(claims)
	assert.True(t, enhanced.IsAdmin())
	assert.True(t, enhanced.CanActFor("someone-else"))
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "k1", time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("ffffffffffffffffffffffffffffffff", "k1", time.Minute)
		token, _, err := other.Issue("user-1", RoleUser, "")
		require.NoError(t, err)
		_, err = issuer.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := NewTokenIssuer(testSecret, "k2", time.Minute)
		token, _, err := other.Issue("user-1", RoleUser, "")
		require.NoError(t, err)
		_, err = issuer.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenIssuer(testSecret, "k1", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := past.Issue("user-1", RoleUser, "")
		require.NoError(t, err)
		_, err = issuer.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing kid", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.ValidateToken("")
		assert.Error(t, err)
	})
}
