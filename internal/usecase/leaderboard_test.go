package usecase

import (
	"context"
	"errors"
	"testing"

	"points-leaderboard/internal/domain"
	"points-leaderboard/internal/repository"

	"github.com/jackc/pgx/v5"
)

type fixedAward int

func (f fixedAward) Draw() int { return int(f) }

const testUserID = "7f8b0a2e-3c4d-4e5f-8a9b-0c1d2e3f4a5b"

type mockStore struct {
	createUserFn       func(ctx context.Context, arg repository.CreateUserParams) (domain.User, error)
	getUserFn          func(ctx context.Context, id string) (domain.User, error)
	getUserForUpdateFn func(ctx context.Context, id string) (domain.User, error)
	addPointsFn        func(ctx context.Context, id string, delta int) (domain.User, error)
	insertClaimFn      func(ctx context.Context, arg repository.InsertClaimParams) (int64, error)
	listUsersFn        func(ctx context.Context) ([]domain.User, error)
	listRecentClaimsFn func(ctx context.Context, limit int) ([]domain.ClaimEntry, error)
	execTxFn           func(ctx context.Context, fn func(repository.Querier) error) error

	execTxCalls int
}

func (m *mockStore) CreateUser(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, arg)
	}
	return domain.User{ID: arg.ID, Name: arg.Name}, nil
}

func (m *mockStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, id)
	}
	return domain.User{ID: id}, nil
}

func (m *mockStore) GetUserForUpdate(ctx context.Context, id string) (domain.User, error) {
	if m.getUserForUpdateFn != nil {
		return m.getUserForUpdateFn(ctx, id)
	}
	return domain.User{ID: id}, nil
}

func (m *mockStore) AddPoints(ctx context.Context, id string, delta int) (domain.User, error) {
	if m.addPointsFn != nil {
		return m.addPointsFn(ctx, id, delta)
	}
	return domain.User{ID: id, Points: int64(delta)}, nil
}

func (m *mockStore) InsertClaim(ctx context.Context, arg repository.InsertClaimParams) (int64, error) {
	if m.insertClaimFn != nil {
		return m.insertClaimFn(ctx, arg)
	}
	return 1, nil
}

func (m *mockStore) ListUsersByPointsDesc(ctx context.Context) ([]domain.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) ListRecentClaims(ctx context.Context, limit int) ([]domain.ClaimEntry, error) {
	if m.listRecentClaimsFn != nil {
		return m.listRecentClaimsFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	m.execTxCalls++
	if m.execTxFn != nil {
		return m.execTxFn(ctx, fn)
	}
	return fn(m)
}

func TestAddUser_Success(t *testing.T) {
	store := &mockStore{
		createUserFn: func(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
			return domain.User{ID: arg.ID, Name: arg.Name, Points: 0}, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	user, err := svc.AddUser(context.Background(), "Ada")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "Ada" {
		t.Fatalf("expected name Ada, got %s", user.Name)
	}
	if user.Points != 0 {
		t.Fatalf("expected 0 points, got %d", user.Points)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestAddUser_TrimsName(t *testing.T) {
	store := &mockStore{
		createUserFn: func(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
			return domain.User{ID: arg.ID, Name: arg.Name}, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	user, err := svc.AddUser(context.Background(), "  Ada  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
}

func TestAddUser_EmptyName(t *testing.T) {
	created := false
	store := &mockStore{
		createUserFn: func(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
			created = true
			return domain.User{}, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := svc.AddUser(context.Background(), name); !errors.Is(err, domain.ErrEmptyName) {
			t.Fatalf("name %q: expected ErrEmptyName, got %v", name, err)
		}
	}
	if created {
		t.Fatal("no user should be created for an empty name")
	}
}

func TestClaimPoints_Success(t *testing.T) {
	var addedDelta, recordedPoints int
	store := &mockStore{
		getUserForUpdateFn: func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Name: "Ada", Points: 5}, nil
		},
		addPointsFn: func(ctx context.Context, id string, delta int) (domain.User, error) {
			addedDelta = delta
			return domain.User{ID: id, Name: "Ada", Points: 5 + int64(delta)}, nil
		},
		insertClaimFn: func(ctx context.Context, arg repository.InsertClaimParams) (int64, error) {
			recordedPoints = arg.Points
			return 1, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(7))
	user, award, err := svc.ClaimPoints(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if award != 7 {
		t.Fatalf("expected award 7, got %d", award)
	}
	if user.Points != 12 {
		t.Fatalf("expected balance 12, got %d", user.Points)
	}
	if addedDelta != 7 {
		t.Fatalf("balance delta %d does not match award 7", addedDelta)
	}
	if recordedPoints != 7 {
		t.Fatalf("history points %d does not match award 7", recordedPoints)
	}
}

func TestClaimPoints_MissingUserID(t *testing.T) {
	store := &mockStore{}
	svc := NewLeaderboardService(store, fixedAward(1))

	for _, id := range []string{"", "   "} {
		if _, _, err := svc.ClaimPoints(context.Background(), id); !errors.Is(err, domain.ErrMissingUserID) {
			t.Fatalf("id %q: expected ErrMissingUserID, got %v", id, err)
		}
	}
	if store.execTxCalls != 0 {
		t.Fatal("no transaction should be opened for a missing user id")
	}
}

func TestClaimPoints_MalformedUserID(t *testing.T) {
	store := &mockStore{}
	svc := NewLeaderboardService(store, fixedAward(1))

	if _, _, err := svc.ClaimPoints(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if store.execTxCalls != 0 {
		t.Fatal("no transaction should be opened for a malformed user id")
	}
}

func TestClaimPoints_UserNotFound(t *testing.T) {
	claimed := false
	store := &mockStore{
		getUserForUpdateFn: func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{}, pgx.ErrNoRows
		},
		insertClaimFn: func(ctx context.Context, arg repository.InsertClaimParams) (int64, error) {
			claimed = true
			return 0, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	if _, _, err := svc.ClaimPoints(context.Background(), testUserID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if claimed {
		t.Fatal("no claim record should be written for an unknown user")
	}
}

func TestClaimPoints_LookupFault(t *testing.T) {
	store := &mockStore{
		getUserForUpdateFn: func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{}, errors.New("connection reset")
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	_, _, err := svc.ClaimPoints(context.Background(), testUserID)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatal("a storage fault must not be reported as not-found")
	}
}

func TestClaimPoints_HistoryInsertFails(t *testing.T) {
	store := &mockStore{
		insertClaimFn: func(ctx context.Context, arg repository.InsertClaimParams) (int64, error) {
			return 0, errors.New("disk full")
		},
	}

	svc := NewLeaderboardService(store, fixedAward(3))
	if _, _, err := svc.ClaimPoints(context.Background(), testUserID); err == nil {
		t.Fatal("expected error when the history insert fails")
	}
}

func TestRankings_Passthrough(t *testing.T) {
	store := &mockStore{
		listUsersFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{
				{Name: "c", Points: 9},
				{Name: "a", Points: 5},
				{Name: "b", Points: 1},
			}, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	users, err := svc.Rankings(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(users) != 3 || users[0].Points != 9 || users[2].Points != 1 {
		t.Fatalf("unexpected rankings: %+v", users)
	}
}

func TestRecentClaims_UsesFixedLimit(t *testing.T) {
	var gotLimit int
	store := &mockStore{
		listRecentClaimsFn: func(ctx context.Context, limit int) ([]domain.ClaimEntry, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	svc := NewLeaderboardService(store, fixedAward(1))
	if _, err := svc.RecentClaims(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotLimit != RecentClaimsLimit {
		t.Fatalf("expected limit %d, got %d", RecentClaimsLimit, gotLimit)
	}
}
