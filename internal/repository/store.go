package repository

import (
	"context"
	"fmt"

	"points-leaderboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	ExecTx(ctx context.Context, fn func(Querier) error) error
	CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListUsersByPointsDesc(ctx context.Context) ([]domain.User, error)
	ListRecentClaims(ctx context.Context, limit int) ([]domain.ClaimEntry, error)
}

// Querier is the query surface available inside a claim transaction.
type Querier interface {
	GetUserForUpdate(ctx context.Context, id string) (domain.User, error)
	AddPoints(ctx context.Context, id string, delta int) (domain.User, error)
	InsertClaim(ctx context.Context, arg InsertClaimParams) (int64, error)
}

type store struct {
	pool    *pgxpool.Pool
	queries *Queries
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		queries: NewQueries(pool),
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := s.queries.WithTx(tx)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *store) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	return s.queries.CreateUser(ctx, arg)
}

func (s *store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.queries.GetUser(ctx, id)
}

func (s *store) ListUsersByPointsDesc(ctx context.Context) ([]domain.User, error) {
	return s.queries.ListUsersByPointsDesc(ctx)
}

func (s *store) ListRecentClaims(ctx context.Context, limit int) ([]domain.ClaimEntry, error) {
	return s.queries.ListRecentClaims(ctx, limit)
}
