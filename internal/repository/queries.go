package repository

import (
	"context"

	"points-leaderboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// set runs against the pool directly or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type CreateUserParams struct {
	ID   string
	Name string
}

const createUser = `
INSERT INTO users (id, name, points)
VALUES ($1, $2, 0)
RETURNING id, name, points, created_at
`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, createUser, arg.ID, arg.Name).
		Scan(&u.ID, &u.Name, &u.Points, &u.CreatedAt)
	return u, err
}

const getUser = `
SELECT id, name, points, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUser, id).
		Scan(&u.ID, &u.Name, &u.Points, &u.CreatedAt)
	return u, err
}

// getUserForUpdate takes a row lock so two claims against the same user
// serialize inside their transactions instead of both reading the same
// pre-claim balance.
const getUserForUpdate = `
SELECT id, name, points, created_at
FROM users
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetUserForUpdate(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUserForUpdate, id).
		Scan(&u.ID, &u.Name, &u.Points, &u.CreatedAt)
	return u, err
}

const addPoints = `
UPDATE users
SET points = points + $2
WHERE id = $1
RETURNING id, name, points, created_at
`

func (q *Queries) AddPoints(ctx context.Context, id string, delta int) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, addPoints, id, delta).
		Scan(&u.ID, &u.Name, &u.Points, &u.CreatedAt)
	return u, err
}

type InsertClaimParams struct {
	UserID string
	Points int
}

const insertClaim = `
INSERT INTO claim_history (user_id, points)
VALUES ($1, $2)
RETURNING id
`

func (q *Queries) InsertClaim(ctx context.Context, arg InsertClaimParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, insertClaim, arg.UserID, arg.Points).Scan(&id)
	return id, err
}

const listUsersByPointsDesc = `
SELECT id, name, points, created_at
FROM users
ORDER BY points DESC, created_at ASC
`

func (q *Queries) ListUsersByPointsDesc(ctx context.Context) ([]domain.User, error) {
	rows, err := q.db.Query(ctx, listUsersByPointsDesc)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Points, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const listRecentClaims = `
SELECT h.id, h.user_id, u.name, h.points, h.claimed_at
FROM claim_history h
JOIN users u ON u.id = h.user_id
ORDER BY h.claimed_at DESC, h.id DESC
LIMIT $1
`

func (q *Queries) ListRecentClaims(ctx context.Context, limit int) ([]domain.ClaimEntry, error) {
	rows, err := q.db.Query(ctx, listRecentClaims, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []domain.ClaimEntry
	for rows.Next() {
		var c domain.ClaimEntry
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserName, &c.Points, &c.ClaimedAt); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
