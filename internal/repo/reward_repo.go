package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type RewardRepository struct {
	DB
}

func NewRewardRepository(pool connectionPool, log *slog.Logger) *RewardRepository {
	return &RewardRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

func (r *RewardRepository) FindReward(ctx context.Context, id string) (reward.Reward, error) {
	findFn := func() (reward.Reward, error) {
		var (
			rw       reward.Reward
			imageURL *string
		)
		err := r.pool.QueryRow(ctx,
			`SELECT id, title, description, points, active, stock, per_user_limit, image_url
			FROM rewards WHERE id = $1`, id,
		).Scan(&rw.ID, &rw.Title, &rw.Description, &rw.Points, &rw.Active,
			&rw.Stock, &rw.PerUserLimit, &imageURL)
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Reward{}, fmt.Errorf("%w: %q", serviceerrs.ErrRewardNotFound, id)
		}
		if err != nil {
			return reward.Reward{}, fmt.Errorf("failed to find reward %s: %w", id, err)
		}
		if imageURL != nil {
			rw.ImageURL = *imageURL
		}
		return rw, nil
	}

	return WithRetry[reward.Reward](findFn, 0) //nolint: wrapcheck // error from wrapped function
}

func (r *RewardRepository) CountRewards(ctx context.Context) (int64, error) {
	countFn := func() (int64, error) {
		var n int64
		if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM rewards`).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count rewards: %w", err)
		}
		return n, nil
	}
	return WithRetry[int64](countFn, 0) //nolint: wrapcheck // error from wrapped function
}

func (r *RewardRepository) RecentRedemptions(ctx context.Context,
	limit int,
) ([]reward.Redemption, error) {
	listFn := func() ([]reward.Redemption, error) {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, reward_id, COALESCE(title, ''), COALESCE(points, 0), created_at
			FROM redemptions
			ORDER BY created_at DESC, id
			LIMIT $1`,
			clampLimit(limit, model.DefaultRecentLimit))
		if err != nil {
			return nil, fmt.Errorf("failed to list redemptions: %w", err)
		}
		defer rows.Close()

		events := make([]reward.Redemption, 0)
		for rows.Next() {
			var e reward.Redemption
			if err = rows.Scan(&e.ID, &e.UserID, &e.RewardID,
				&e.Title, &e.Points, &e.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan redemption: %w", err)
			}
			events = append(events, e)
		}
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
		}
		return events, nil
	}

	return WithRetry[[]reward.Redemption](listFn, 0) //nolint: wrapcheck // error from wrapped function
}
