package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/utils/auth"
)

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(auth.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authentication turns a valid token into the request Principal.
func Authentication(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authFunc := func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				log.LogAttrs(r.Context(),
					slog.LevelWarn,
					"failed to find token in request",
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			claims, err := auth.CheckToken(tokenStr, secret)
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelWarn,
					"authentication failed",
					slog.Any(model.KeyLoggerError, err),
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithPrincipal(r.Context(), claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(authFunc)
	}
}

// AdminOnly rejects requests whose Principal is not an admin.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.PrincipalFromContext(r.Context()).IsAdmin() {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
