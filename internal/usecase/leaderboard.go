package usecase

import (
	"context"
	"errors"
	"strings"

	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecentClaimsLimit caps the claim history returned to callers.
const RecentClaimsLimit = 10

type LeaderboardService struct {
	store  repository.Store
	awards AwardSource
}

func NewLeaderboardService(store repository.Store, awards AwardSource) *LeaderboardService {
	return &LeaderboardService{store: store, awards: awards}
}

func (s *LeaderboardService) AddUser(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	user, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		ID:   uuid.New().String(),
		Name: name,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ClaimPoints awards a random amount to the user and records the claim.
// The balance update and the history insert commit together or not at all.
func (s *LeaderboardService) ClaimPoints(ctx context.Context, userID string) (*domain.User, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, 0, domain.ErrMissingUserID
	}
	// A malformed id cannot reference any row; treat it as not found
	// instead of letting the uuid cast surface as a storage fault.
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, domain.ErrUserNotFound
	}

	// Drawn once; the same amount feeds the balance update and the
	// history record.
	award := s.awards.Draw()

	var updated domain.User
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetUserForUpdate(ctx, userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return err
		}

		user, err := q.AddPoints(ctx, userID, award)
		if err != nil {
			return err
		}
		updated = user

		_, err = q.InsertClaim(ctx, repository.InsertClaimParams{
			UserID: userID,
			Points: award,
		})
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return &updated, award, nil
}

func (s *LeaderboardService) Rankings(ctx context.Context) ([]domain.User, error) {
	return s.store.ListUsersByPointsDesc(ctx)
}

func (s *LeaderboardService) RecentClaims(ctx context.Context) ([]domain.ClaimEntry, error) {
	return s.store.ListRecentClaims(ctx, RecentClaimsLimit)
}
