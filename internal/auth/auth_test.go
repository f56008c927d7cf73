package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/algamoney-api/internal/models"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := repo.NewInMemoryUserRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.CreateUser(context.Background(), models.User{Username: "admin", PasswordHash: string(hash), Role: "admin"})
	require.NoError(t, err)

	svc := NewAuthService(users,
		NewTokenIssuer([]byte("test-secret"), 15*time.Minute),
		NewRefreshTokenStore(rdb, time.Hour))
	return svc, mr
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("k"), time.Minute)

	tok, err := issuer.Generate(models.User{ID: 9, Username: "ana", Role: "user"})
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: 9, Username: "ana", Role: "user"}, claims)

	_, err = NewTokenIssuer([]byte("other"), time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpiredAndForeignAlgorithms(t *testing.T) {
	issuer := NewTokenIssuer([]byte("k"), -time.Minute)
	expired, err := issuer.Generate(models.User{ID: 1})
	require.NoError(t, err)

	_, err = issuer.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordGrant(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	pair, err := svc.PasswordGrant(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

	stored, err := mr.Get(refreshTokenKeyPrefix + pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "1", stored)
	assert.Equal(t, time.Hour, mr.TTL(refreshTokenKeyPrefix+pair.RefreshToken))

	_, err = svc.PasswordGrant(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.PasswordGrant(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshGrant_RotatesToken(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	first, err := svc.PasswordGrant(ctx, "admin", "secret")
	require.NoError(t, err)

	second, err := svc.RefreshGrant(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.False(t, mr.Exists(refreshTokenKeyPrefix+first.RefreshToken))
	assert.True(t, mr.Exists(refreshTokenKeyPrefix+second.RefreshToken))

	claims, err := svc.Issuer().Parse(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = svc.RefreshGrant(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestRefreshTokenStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRefreshTokenStore(rdb, time.Hour)
	tok, err := store.Issue(ctx, 7)
	require.NoError(t, err)

	userID, err := store.Consume(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.False(t, mr.Exists(refreshTokenKeyPrefix+tok))

	_, err = store.Consume(ctx, tok)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestRefreshGrant_ConcurrentReplay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	pair, err := svc.PasswordGrant(ctx, "admin", "secret")
	require.NoError(t, err)

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
		denied  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RefreshGrant(ctx, pair.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				granted++
			} else if assert.ErrorIs(t, err, ErrInvalidGrant) {
				denied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, attempts-1, denied)
}

func TestRefreshGrant_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	pair, err := svc.PasswordGrant(ctx, "admin", "secret")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.RefreshGrant(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	pair, err := svc.PasswordGrant(ctx, "admin", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken))

	_, err = svc.RefreshGrant(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidGrant)

	// revoking twice is not an error
	assert.NoError(t, svc.Revoke(ctx, pair.RefreshToken))
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.EnsureUser(ctx, "ops", "pa55word", "admin"))
	_, err := svc.PasswordGrant(ctx, "ops", "pa55word")
	require.NoError(t, err)

	// existing users keep their password
	require.NoError(t, svc.EnsureUser(ctx, "ops", "changed", "admin"))
	_, err = svc.PasswordGrant(ctx, "ops", "changed")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
