package kafka

import (
	"context"

	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/usecase"
)

// DirectGateway calls the service in-process when event-driven mode is off.
type DirectGateway struct {
	service *usecase.LeaderboardService
}

func NewDirectGateway(service *usecase.LeaderboardService) usecase.LeaderboardGateway {
	return &DirectGateway{service: service}
}

func (g *DirectGateway) AddUser(ctx context.Context, name string) (*domain.User, error) {
	return g.service.AddUser(ctx, name)
}

func (g *DirectGateway) ClaimPoints(ctx context.Context, userID string) (*domain.User, int, error) {
	return g.service.ClaimPoints(ctx, userID)
}

func (g *DirectGateway) Rankings(ctx context.Context) ([]domain.User, error) {
	return g.service.Rankings(ctx)
}

func (g *DirectGateway) RecentClaims(ctx context.Context) ([]domain.ClaimEntry, error) {
	return g.service.RecentClaims(ctx)
}
