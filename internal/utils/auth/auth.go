package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

const (
	TokenExpire = 3 * time.Hour
	CookieName  = "jwt-token"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"uid"`
	Role   user.Role `json:"role"`
}

func (c Claims) Principal() user.Principal {
	return user.Principal{UserID: c.UserID, Role: c.Role}
}

func IssueToken(p user.Principal, ttl time.Duration, secret []byte) (string, error) {
	if ttl <= 0 {
		ttl = TokenExpire
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   p.UserID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
			UserID: p.UserID,
			Role:   p.Role,
		},
	)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("JWT signing: %w", err)
	}
	return tokenString, nil
}

func Cookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func CheckToken(tokenString string, secret []byte) (Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(_ *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, serviceerrs.ErrTokenExpired
	}
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}
	return *claims, nil
}

func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, model.KeyContextPrincipal, p)
}

// PrincipalFromContext returns the zero Principal when the request was not
// authenticated. The zero Principal is never an admin.
func PrincipalFromContext(ctx context.Context) user.Principal {
	p, _ := ctx.Value(model.KeyContextPrincipal).(user.Principal)
	return p
}
