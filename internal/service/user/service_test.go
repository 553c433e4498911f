package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

type userRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteCascadeFunc func(ctx context.Context, id uuid.UUID) error

	deleteCalls int
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	return m.DeleteCascadeFunc(ctx, id)
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(users *userRepoMock) *Service {
	return &Service{users: users, tx: txManagerMock{}, log: slog.Default()}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			if id != userID {
				t.Errorf("lookup id: got %v, want %v", id, userID)
			}
			return &domain.User{ID: id, Username: "alice"}, nil
		},
	}
	svc := newTestService(users)

	ctx := ctxutil.WithUserID(context.Background(), userID)
	got, err := svc.Profile(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username: got %q", got.Username)
	}
}

func TestProfile_Anonymous(t *testing.T) {
	t.Parallel()

	svc := newTestService(&userRepoMock{})

	_, err := svc.Profile(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &userRepoMock{
		DeleteCascadeFunc: func(_ context.Context, id uuid.UUID) error {
			if id != userID {
				t.Errorf("delete id: got %v, want %v", id, userID)
			}
			return nil
		},
	}
	svc := newTestService(users)

	ctx := ctxutil.WithUserID(context.Background(), userID)
	if err := svc.DeleteAccount(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.deleteCalls != 1 {
		t.Errorf("delete calls: got %d, want 1", users.deleteCalls)
	}
}

func TestDeleteAccount_Anonymous(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{}
	svc := newTestService(users)

	if err := svc.DeleteAccount(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if users.deleteCalls != 0 {
		t.Error("store must not be touched for an anonymous request")
	}
}
