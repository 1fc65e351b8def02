package reward

import (
	"context"
	"time"
)

type Reward struct {
	Stock        *int64 `json:"stock,omitempty"`
	PerUserLimit *int64 `json:"per_user_limit,omitempty"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	Points       int64  `json:"points"`
	Active       bool   `json:"active"`
}

// Redemption is written by the redemption flow. Title and Points are the
// snapshot taken when the reward was charged and may be empty on old rows.
type Redemption struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RewardID  string    `json:"reward_id"`
	Title     string    `json:"title,omitempty"`
	Points    int64     `json:"points,omitempty"`
}

type EnrichedRedemption struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	RewardID    string    `json:"reward_id"`
	RewardTitle string    `json:"reward_title"`
	Points      int64     `json:"points"`
	Backfilled  bool      `json:"backfilled"`
}

type Totals struct {
	Users   int64 `json:"users"`
	Rewards int64 `json:"rewards"`
	Recent  int   `json:"recent"`
}

type Repository interface {
	FindReward(ctx context.Context, id string) (Reward, error)
	CountRewards(ctx context.Context) (int64, error)
}

type RedemptionRepository interface {
	// RecentRedemptions returns at most limit events, newest first.
	RecentRedemptions(ctx context.Context, limit int) ([]Redemption, error)
}
