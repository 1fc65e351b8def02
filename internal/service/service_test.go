package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/service/config"
	"github.com/talx-hub/points-ledger/internal/utils/auth"
)

const seed = `
users:
  - {id: ua, name: Ana, email: a@x.com, points: 100}
  - {id: u9, name: Nine, email: nine@x.com}
rewards:
  - {id: r1, title: Coffee, points: 50}
redemptions:
  - {id: c1, user: ua, reward: r1, at: 2025-03-01T10:00:00Z}
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	t.Setenv("DATABASE_URI", "")
	t.Setenv("SECRET_KEY", "Orbit-Kettle-7c2f-Marble-91aa-Zephyr")
	b := config.NewBuilder(slog.Default()).FromEnv().FromArgs([]string{"-seed", path}).Validate()
	require.NoError(t, b.Error())
	return b.GetConfig()
}

func do(t *testing.T, h http.Handler, method, target, contentType, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestApp_endToEnd(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	h := app.Handler()

	token, err := auth.IssueToken(user.Principal{UserID: "boss", Role: user.RoleAdmin},
		time.Hour, []byte(cfg.SecretKey))
	require.NoError(t, err)

	rr := do(t, h, http.MethodGet, "/ping", "", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"store":"memory"`)

	rr = do(t, h, http.MethodPost, "/api/admin/batches?source=w1.csv", "text/csv",
		"email,uid,points\na@x.com,,50\n,u9,abc\nmissing@x.com,,20\n", token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var summary batch.Summary
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Accepted)
	assert.Equal(t, 2, summary.Rejected)

	rr = do(t, h, http.MethodPost, "/api/admin/users/ua/adjust", "application/json",
		`{"delta": -7, "reason": "typo"}`, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/admin/users", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	var users []user.Account
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&users))
	require.Len(t, users, 2)
	assert.Equal(t, "ua", users[0].ID)
	assert.Equal(t, int64(143), users[0].Balance.Points)

	rr = do(t, h, http.MethodGet, "/api/admin/users/ua/entries", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []json.RawMessage
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
	assert.Len(t, entries, 2)

	rr = do(t, h, http.MethodGet, "/api/admin/redemptions", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	var recent []reward.EnrichedRedemption
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&recent))
	require.Len(t, recent, 1)
	assert.Equal(t, "Coffee", recent[0].RewardTitle)
	assert.Equal(t, "Ana", recent[0].UserName)
	assert.True(t, recent[0].Backfilled)

	rr = do(t, h, http.MethodGet, "/api/admin/totals", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"users":2,"rewards":1,"recent":1}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/admin/batches", "", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"source":"w1.csv"`)
}

func TestApp_Run_stopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.RunAddr = "127.0.0.1:0"
	app, err := New(context.Background(), cfg, slog.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNew_badSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, slog.Default())
	require.Error(t, err)
}
