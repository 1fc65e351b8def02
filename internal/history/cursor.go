package history

import (
	"context"
	"fmt"

	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
)

// Cursor walks one pass over recent redemptions, newest first. It cannot be
// rewound; call Aggregator.Recent again for a fresh read.
type Cursor struct {
	err     error
	users   *Cache[string, user.Account]
	rewards *Cache[string, reward.Reward]
	events  []reward.Redemption
	item    reward.EnrichedRedemption
	pos     int
}

func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil || c.pos >= len(c.events) {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}

	e := c.events[c.pos]
	c.pos++
	item, err := c.enrich(ctx, e)
	if err != nil {
		c.err = err
		return false
	}
	c.item = item
	return true
}

func (c *Cursor) Item() reward.EnrichedRedemption {
	return c.item
}

func (c *Cursor) Err() error {
	return c.err
}

// Len reports the number of events the pass was opened with.
func (c *Cursor) Len() int {
	return len(c.events)
}

// enrich joins the event with its user and, when the snapshot is
// incomplete, its reward. Backfilled values are never written back.
func (c *Cursor) enrich(ctx context.Context, e reward.Redemption) (reward.EnrichedRedemption, error) {
	out := reward.EnrichedRedemption{
		CreatedAt:   e.CreatedAt,
		ID:          e.ID,
		UserID:      e.UserID,
		UserName:    e.UserID,
		RewardID:    e.RewardID,
		RewardTitle: e.Title,
		Points:      e.Points,
	}

	if e.Title == "" || e.Points == 0 {
		rw, found, err := c.rewards.Get(ctx, e.RewardID)
		if err != nil {
			return reward.EnrichedRedemption{},
				fmt.Errorf("failed to resolve reward %s of redemption %s: %w", e.RewardID, e.ID, err)
		}
		if found {
			if out.RewardTitle == "" {
				out.RewardTitle = rw.Title
				out.Backfilled = true
			}
			if out.Points == 0 && rw.Points != 0 {
				out.Points = rw.Points
				out.Backfilled = true
			}
		}
	}

	acc, found, err := c.users.Get(ctx, e.UserID)
	if err != nil {
		return reward.EnrichedRedemption{},
			fmt.Errorf("failed to resolve user %s of redemption %s: %w", e.UserID, e.ID, err)
	}
	if found {
		if acc.DisplayName != "" {
			out.UserName = acc.DisplayName
		}
		out.UserEmail = acc.Email
	}
	return out, nil
}
