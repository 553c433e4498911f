package follow

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/pkg/ctxutil"
)

type followRepoMock struct {
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Follow, error)
	GetByIDFunc    func(ctx context.Context, userID, id uuid.UUID) (*domain.Follow, error)
	PairExistsFunc func(ctx context.Context, userID, followingID uuid.UUID) (bool, error)
	CreateFunc     func(ctx context.Context, f *domain.Follow) (*domain.Follow, error)
	DeleteFunc     func(ctx context.Context, userID, id uuid.UUID) error

	createCalls int
}

func (m *followRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Follow, error) {
	return m.ListByUserFunc(ctx, userID, search)
}

func (m *followRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Follow, error) {
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *followRepoMock) PairExists(ctx context.Context, userID, followingID uuid.UUID) (bool, error) {
	return m.PairExistsFunc(ctx, userID, followingID)
}

func (m *followRepoMock) Create(ctx context.Context, f *domain.Follow) (*domain.Follow, error) {
	m.createCalls++
	return m.CreateFunc(ctx, f)
}

func (m *followRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.DeleteFunc(ctx, userID, id)
}

type userRepoMock struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func userDirectory(users map[string]uuid.UUID) *userRepoMock {
	return &userRepoMock{
		GetByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
			id, ok := users[username]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return &domain.User{ID: id, Username: username}, nil
		},
	}
}

func noPair(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return false, nil }

func newTestService(follows *followRepoMock, users *userRepoMock) *Service {
	return &Service{
		follows: follows,
		users:   users,
		access:  policy.AuthenticatedOnly,
		guard:   policy.NewFollowGuard(follows.PairExists),
		log:     slog.Default(),
	}
}

func TestList_ScopedToActor(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	follows := &followRepoMock{
		ListByUserFunc: func(_ context.Context, userID uuid.UUID, search string) ([]*domain.Follow, error) {
			if userID != actor {
				t.Errorf("listing must be scoped to the actor, got %v", userID)
			}
			if search != "ali" {
				t.Errorf("search: got %q", search)
			}
			return []*domain.Follow{{ID: uuid.New(), UserID: actor}}, nil
		},
	}
	svc := newTestService(follows, &userRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), actor)

	got, err := svc.List(ctx, "ali")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("follows: got %d, want 1", len(got))
	}
}

func TestList_AnonymousRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(&followRepoMock{}, &userRepoMock{})

	_, err := svc.List(context.Background(), "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreate_ForcesFollowerToActor(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	targetID := uuid.New()
	follows := &followRepoMock{
		PairExistsFunc: noPair,
		CreateFunc: func(_ context.Context, f *domain.Follow) (*domain.Follow, error) {
			return f, nil
		},
	}
	svc := newTestService(follows, userDirectory(map[string]uuid.UUID{"alice": targetID}))
	ctx := ctxutil.WithUserID(context.Background(), actor)

	created, err := svc.Create(ctx, CreateInput{Following: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != actor {
		t.Errorf("follower: got %v, want acting user %v", created.UserID, actor)
	}
	if created.FollowingID != targetID {
		t.Errorf("followed: got %v, want %v", created.FollowingID, targetID)
	}
}

func TestCreate_StampsCreationTime(t *testing.T) {
	t.Parallel()

	var persisted *domain.Follow
	follows := &followRepoMock{
		PairExistsFunc: noPair,
		CreateFunc: func(_ context.Context, f *domain.Follow) (*domain.Follow, error) {
			persisted = f
			return f, nil
		},
	}
	svc := newTestService(follows, userDirectory(map[string]uuid.UUID{"alice": uuid.New()}))
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if _, err := svc.Create(ctx, CreateInput{Following: "alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted.CreatedAt.IsZero() {
		t.Error("created follow must carry a creation timestamp")
	}
}

func TestCreate_SelfFollowRejected(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	follows := &followRepoMock{PairExistsFunc: noPair}
	svc := newTestService(follows, userDirectory(map[string]uuid.UUID{"me": actor}))
	ctx := ctxutil.WithUserID(context.Background(), actor)

	_, err := svc.Create(ctx, CreateInput{Following: "me"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := vErr.Errors[0].Message; got != policy.SelfFollowMessage {
		t.Errorf("message: got %q, want %q", got, policy.SelfFollowMessage)
	}
	if follows.createCalls != 0 {
		t.Error("store must not be touched on a self-follow")
	}
}

func TestCreate_UnknownUsernameIsNotFound(t *testing.T) {
	t.Parallel()

	follows := &followRepoMock{PairExistsFunc: noPair}
	svc := newTestService(follows, userDirectory(nil))
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.Create(ctx, CreateInput{Following: "ghost"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_DuplicatePairRejected(t *testing.T) {
	t.Parallel()

	targetID := uuid.New()
	follows := &followRepoMock{
		PairExistsFunc: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(follows, userDirectory(map[string]uuid.UUID{"alice": targetID}))
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.Create(ctx, CreateInput{Following: "alice"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if follows.createCalls != 0 {
		t.Error("store must not be touched on a duplicate pair")
	}
}

func TestCreate_RacedDuplicateRemapped(t *testing.T) {
	t.Parallel()

	targetID := uuid.New()
	follows := &followRepoMock{
		PairExistsFunc: noPair,
		CreateFunc: func(context.Context, *domain.Follow) (*domain.Follow, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	svc := newTestService(follows, userDirectory(map[string]uuid.UUID{"alice": targetID}))
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.Create(ctx, CreateInput{Following: "alice"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := vErr.Errors[0].Message; got != policy.DuplicateFollowMessage {
		t.Errorf("message: got %q, want %q", got, policy.DuplicateFollowMessage)
	}
}

func TestCreate_BlankUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(&followRepoMock{}, &userRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.Create(ctx, CreateInput{Following: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGet_OtherUsersEdgeIsNotFound(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	follows := &followRepoMock{
		GetByIDFunc: func(_ context.Context, userID, _ uuid.UUID) (*domain.Follow, error) {
			if userID != actor {
				t.Errorf("lookup must be scoped to the actor, got %v", userID)
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(follows, &userRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), actor)

	_, err := svc.Get(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ScopedToActor(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	followID := uuid.New()
	follows := &followRepoMock{
		DeleteFunc: func(_ context.Context, userID, id uuid.UUID) error {
			if userID != actor || id != followID {
				t.Errorf("delete scope: got (%v, %v)", userID, id)
			}
			return nil
		},
	}
	svc := newTestService(follows, &userRepoMock{})
	ctx := ctxutil.WithUserID(context.Background(), actor)

	if err := svc.Delete(ctx, followID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
