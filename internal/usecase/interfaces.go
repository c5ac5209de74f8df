package usecase

import (
	"context"

	"points-leaderboard/internal/domain"
)

type LeaderboardGateway interface {
	AddUser(ctx context.Context, name string) (*domain.User, error)
	ClaimPoints(ctx context.Context, userID string) (*domain.User, int, error)
	Rankings(ctx context.Context) ([]domain.User, error)
	RecentClaims(ctx context.Context) ([]domain.ClaimEntry, error)
}
