package user

import (
	"context"
	"errors"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// Principal is the caller identity every mutating call must present.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.UserID != "" && p.Role == RoleAdmin
}

// Balance holds the mutable point fields of an account. Version is the
// optimistic concurrency token observed at read time.
type Balance struct {
	Points  int64 `json:"points"`
	Today   int64 `json:"points_today"`
	Week    int64 `json:"points_week"`
	Version int64 `json:"-"`
}

// Apply adds delta to the balance and both period counters. No floor is
// enforced: balances may go negative.
func (b Balance) Apply(delta int64) Balance {
	return Balance{
		Points:  b.Points + delta,
		Today:   b.Today + delta,
		Week:    b.Week + delta,
		Version: b.Version,
	}
}

type Account struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	Balance     Balance `json:"balance"`
}

type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

func (p Period) Validate() error {
	switch p {
	case PeriodDay, PeriodWeek:
		return nil
	}
	return errors.New("unknown counter period: " + string(p))
}

type BalanceTx interface {
	GetBalance(ctx context.Context, userID string) (Balance, error)
	// PutBalance writes b only if the stored version still equals b.Version.
	PutBalance(ctx context.Context, userID string, b Balance) error
}

type BalanceStore interface {
	RunBalanceTx(ctx context.Context,
		fn func(ctx context.Context, tx BalanceTx) error) error
}

type Repository interface {
	FindByID(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	CountAccounts(ctx context.Context) (int64, error)
	ListAccounts(ctx context.Context, limit int) ([]Account, error)
	ResetPeriod(ctx context.Context, p Period) (int64, error)
}
