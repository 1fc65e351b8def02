package memstore

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
)

type seedUser struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Role   string `yaml:"role"`
	Points int64  `yaml:"points"`
	Today  int64  `yaml:"points_today"`
	Week   int64  `yaml:"points_week"`
}

type seedReward struct {
	Active       *bool  `yaml:"active"`
	Stock        *int64 `yaml:"stock"`
	PerUserLimit *int64 `yaml:"per_user_limit"`
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Points       int64  `yaml:"points"`
}

type seedRedemption struct {
	At     time.Time `yaml:"at"`
	ID     string    `yaml:"id"`
	User   string    `yaml:"user"`
	Reward string    `yaml:"reward"`
	Title  string    `yaml:"title"`
	Points int64     `yaml:"points"`
}

type seed struct {
	Users       []seedUser       `yaml:"users"`
	Rewards     []seedReward     `yaml:"rewards"`
	Redemptions []seedRedemption `yaml:"redemptions"`
}

// LoadSeed fills the store from a YAML document with users, rewards and
// redemptions sections. Unknown keys are rejected.
func (s *Store) LoadSeed(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc seed
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode seed: %w", err)
	}

	for i, u := range doc.Users {
		if u.ID == "" {
			return fmt.Errorf("seed user #%d has no id", i+1)
		}
		role := user.Role(u.Role)
		if role == "" {
			role = user.RoleDriver
		}
		s.PutAccount(user.Account{
			ID:          u.ID,
			DisplayName: u.Name,
			Email:       u.Email,
			Role:        role,
			Balance:     user.Balance{Points: u.Points, Today: u.Today, Week: u.Week},
		})
	}
	for i, rw := range doc.Rewards {
		if rw.ID == "" {
			return fmt.Errorf("seed reward #%d has no id", i+1)
		}
		active := rw.Active == nil || *rw.Active
		s.PutReward(reward.Reward{
			Stock:        rw.Stock,
			PerUserLimit: rw.PerUserLimit,
			ID:           rw.ID,
			Title:        rw.Title,
			Description:  rw.Description,
			Points:       rw.Points,
			Active:       active,
		})
	}
	for i, rd := range doc.Redemptions {
		if rd.ID == "" || rd.User == "" || rd.Reward == "" {
			return fmt.Errorf("seed redemption #%d needs id, user and reward", i+1)
		}
		s.PutRedemption(reward.Redemption{
			CreatedAt: rd.At.UTC(),
			ID:        rd.ID,
			UserID:    rd.User,
			RewardID:  rd.Reward,
			Title:     rd.Title,
			Points:    rd.Points,
		})
	}
	return nil
}
