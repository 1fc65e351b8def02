package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

var secret = []byte("test-secret")

func TestCheckToken(t *testing.T) {
	admin := user.Principal{UserID: "admin-1", Role: user.RoleAdmin}
	valid, err := IssueToken(admin, time.Hour, secret)
	require.NoError(t, err)
	defaulted, err := IssueToken(admin, -time.Hour, secret)
	require.NoError(t, err)
	expiredClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           "admin-1",
		Role:             user.RoleAdmin,
	})
	reallyExpired, err := expiredClaims.SignedString(secret)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "x"}).SignedString(secret)
	require.NoError(t, err)
	foreign, err := IssueToken(admin, time.Hour, []byte("other"))
	require.NoError(t, err)

	tests := []struct {
		wantErr error
		name    string
		token   string
		want    user.Principal
	}{
		{name: "valid", token: valid, want: admin},
		{name: "default ttl", token: defaulted, want: admin},
		{name: "expired", token: reallyExpired, wantErr: serviceerrs.ErrTokenExpired},
		{name: "no expiry", token: noExpiry, wantErr: jwt.ErrTokenRequiredClaimMissing},
		{name: "foreign signature", token: foreign, wantErr: jwt.ErrTokenSignatureInvalid},
		{name: "garbage", token: "not.a.token", wantErr: jwt.ErrTokenMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := CheckToken(tt.token, secret)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims.Principal())
		})
	}
}

func TestPrincipalFromContext(t *testing.T) {
	assert.False(t, PrincipalFromContext(context.Background()).IsAdmin())

	p := user.Principal{UserID: "a", Role: user.RoleAdmin}
	assert.Equal(t, p, PrincipalFromContext(WithPrincipal(context.Background(), p)))
}
