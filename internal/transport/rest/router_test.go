package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dsmolkin/feedline/internal/config"
	"github.com/dsmolkin/feedline/internal/domain"
	"github.com/dsmolkin/feedline/internal/policy"
	"github.com/dsmolkin/feedline/internal/service/comment"
	"github.com/dsmolkin/feedline/internal/service/follow"
	"github.com/dsmolkin/feedline/internal/service/group"
	"github.com/dsmolkin/feedline/internal/service/post"
	"github.com/dsmolkin/feedline/internal/service/user"
	"github.com/dsmolkin/feedline/internal/transport/middleware"
)

// fakeStore is an in-memory backend implementing every repository
// interface the services consume.
type fakeStore struct {
	users    map[uuid.UUID]*domain.User
	posts    map[uuid.UUID]*domain.Post
	comments map[uuid.UUID]*domain.Comment
	groups   map[uuid.UUID]*domain.Group
	follows  map[uuid.UUID]*domain.Follow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*domain.User),
		posts:    make(map[uuid.UUID]*domain.Post),
		comments: make(map[uuid.UUID]*domain.Comment),
		groups:   make(map[uuid.UUID]*domain.Group),
		follows:  make(map[uuid.UUID]*domain.Follow),
	}
}

func (s *fakeStore) addUser(username string) *domain.User {
	u := &domain.User{ID: uuid.New(), Username: username, Email: username + "@example.com"}
	s.users[u.ID] = u
	return u
}

// user repo

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// tx manager

func (s *fakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// post repo

type fakePosts struct{ s *fakeStore }

func (f fakePosts) List(_ context.Context, _ domain.PostFilter) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(f.s.posts))
	for _, p := range f.s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f fakePosts) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := f.s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f fakePosts) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.s.posts[id]
	return ok, nil
}

func (f fakePosts) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	if u, ok := f.s.users[p.AuthorID]; ok {
		p.Author = u.Username
	}
	f.s.posts[p.ID] = p
	return p, nil
}

func (f fakePosts) Update(_ context.Context, id uuid.UUID, text string, image *string, groupID *uuid.UUID) (*domain.Post, error) {
	p, ok := f.s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Text, p.Image, p.GroupID = text, image, groupID
	return p, nil
}

func (f fakePosts) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.posts, id)
	return nil
}

// comment repo

type fakeComments struct{ s *fakeStore }

func (f fakeComments) ListByPost(_ context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeComments) GetByID(_ context.Context, postID, id uuid.UUID) (*domain.Comment, error) {
	c, ok := f.s.comments[id]
	if !ok || c.PostID != postID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f fakeComments) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	if u, ok := f.s.users[c.AuthorID]; ok {
		c.Author = u.Username
	}
	f.s.comments[c.ID] = c
	return c, nil
}

func (f fakeComments) Update(_ context.Context, postID, id uuid.UUID, text string) (*domain.Comment, error) {
	c, err := f.GetByID(context.Background(), postID, id)
	if err != nil {
		return nil, err
	}
	c.Text = text
	return c, nil
}

func (f fakeComments) Delete(_ context.Context, postID, id uuid.UUID) error {
	if _, err := f.GetByID(context.Background(), postID, id); err != nil {
		return err
	}
	delete(f.s.comments, id)
	return nil
}

// group repo

type fakeGroups struct{ s *fakeStore }

func (f fakeGroups) List(_ context.Context) ([]*domain.Group, error) {
	out := make([]*domain.Group, 0, len(f.s.groups))
	for _, g := range f.s.groups {
		out = append(out, g)
	}
	return out, nil
}

func (f fakeGroups) GetByID(_ context.Context, id uuid.UUID) (*domain.Group, error) {
	g, ok := f.s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (f fakeGroups) GetBySlug(_ context.Context, slug string) (*domain.Group, error) {
	for _, g := range f.s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeGroups) Update(_ context.Context, id uuid.UUID, title, description, slug string) (*domain.Group, error) {
	g, ok := f.s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	g.Title, g.Description, g.Slug = title, description, slug
	return g, nil
}

func (f fakeGroups) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.groups, id)
	return nil
}

// follow repo

type fakeFollows struct{ s *fakeStore }

func (f fakeFollows) ListByUser(_ context.Context, userID uuid.UUID, _ string) ([]*domain.Follow, error) {
	var out []*domain.Follow
	for _, fl := range f.s.follows {
		if fl.UserID == userID {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f fakeFollows) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Follow, error) {
	fl, ok := f.s.follows[id]
	if !ok || fl.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return fl, nil
}

func (f fakeFollows) PairExists(_ context.Context, userID, followingID uuid.UUID) (bool, error) {
	for _, fl := range f.s.follows {
		if fl.UserID == userID && fl.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeFollows) Create(_ context.Context, fl *domain.Follow) (*domain.Follow, error) {
	if u, ok := f.s.users[fl.UserID]; ok {
		fl.User = u.Username
	}
	if u, ok := f.s.users[fl.FollowingID]; ok {
		fl.Following = u.Username
	}
	f.s.follows[fl.ID] = fl
	return fl, nil
}

func (f fakeFollows) Delete(_ context.Context, userID, id uuid.UUID) error {
	if _, err := f.GetByID(context.Background(), userID, id); err != nil {
		return err
	}
	delete(f.s.follows, id)
	return nil
}

// staticValidator maps fixed bearer tokens to user ids.
type staticValidator map[string]uuid.UUID

func (v staticValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := v[token]
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

type testAPI struct {
	handler http.Handler
	store   *fakeStore
	tokens  staticValidator
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	apiCfg := config.APIConfig{DefaultPageSize: 50, MaxPageSize: 200, MaxTextLength: 10000}

	postSvc := post.NewService(logger, fakePosts{store}, fakeGroups{store}, store, apiCfg)
	commentSvc := comment.NewService(logger, fakeComments{store}, fakePosts{store}, apiCfg)
	groupSvc := group.NewService(logger, fakeGroups{store}, store)
	followSvc := follow.NewService(logger, fakeFollows{store}, store)
	userSvc := user.NewService(logger, store, store)

	router := NewRouter(Handlers{
		Post:    NewPostHandler(postSvc, logger),
		Comment: NewCommentHandler(commentSvc, logger),
		Group:   NewGroupHandler(groupSvc, logger),
		Follow:  NewFollowHandler(followSvc, logger),
		User:    NewUserHandler(userSvc, logger),
		Health:  NewHealthHandler(&dbPingerMock{}, "test"),
		Auth:    NewAuthHandler(nil, logger),
	})

	tokens := staticValidator{}
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Auth(tokens),
	)(router)

	return &testAPI{handler: handler, store: store, tokens: tokens}
}

func (a *testAPI) tokenFor(u *domain.User) string {
	token := "token-" + u.Username
	a.tokens[token] = u.ID
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestGroupCreate_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")

	// Anonymous and authenticated actors get the same answer.
	for _, token := range []string{"", api.tokenFor(alice)} {
		rec := api.do(t, http.MethodPost, "/api/v1/groups", token, map[string]string{
			"title": "Cats", "slug": "cats",
		})
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("token=%q: expected 405, got %d", token, rec.Code)
		}
	}
}

func TestPostCreate_AnonymousUnauthorized(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/posts", "", map[string]string{"text": "hello"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPostLifecycle(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")
	bob := api.store.addUser("bob")
	aliceToken := api.tokenFor(alice)
	bobToken := api.tokenFor(bob)

	rec := api.do(t, http.MethodPost, "/api/v1/posts", aliceToken, map[string]string{"text": "first post"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var created postResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Author != "alice" {
		t.Errorf("author: got %q, want alice", created.Author)
	}

	// Anyone may read.
	rec = api.do(t, http.MethodGet, "/api/v1/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}

	// Only the author may edit.
	rec = api.do(t, http.MethodPatch, "/api/v1/posts/"+created.ID, bobToken, map[string]string{"text": "hijack"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign patch: expected 403, got %d", rec.Code)
	}

	rec = api.do(t, http.MethodPatch, "/api/v1/posts/"+created.ID, aliceToken, map[string]string{"text": "edited"})
	if rec.Code != http.StatusOK {
		t.Errorf("own patch: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = api.do(t, http.MethodDelete, "/api/v1/posts/"+created.ID, aliceToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
}

func TestCommentCreate_MissingPostNotFound(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")

	rec := api.do(t, http.MethodPost, "/api/v1/posts/"+uuid.NewString()+"/comments",
		api.tokenFor(alice), map[string]string{"text": "hello"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSelfFollow_ExactMessage(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")

	rec := api.do(t, http.MethodPost, "/api/v1/follow", api.tokenFor(alice),
		map[string]string{"following": "alice"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Message != policy.SelfFollowMessage {
		t.Errorf("fields: got %+v, want message %q", resp.Fields, policy.SelfFollowMessage)
	}
}

func TestFollow_ScopedToActor(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")
	bob := api.store.addUser("bob")
	aliceToken := api.tokenFor(alice)
	bobToken := api.tokenFor(bob)

	rec := api.do(t, http.MethodPost, "/api/v1/follow", aliceToken, map[string]string{"following": "bob"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var created followResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.User != "alice" || created.Following != "bob" {
		t.Errorf("edge: got %s -> %s", created.User, created.Following)
	}

	// Duplicate is a validation error, not a conflict.
	rec = api.do(t, http.MethodPost, "/api/v1/follow", aliceToken, map[string]string{"following": "bob"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate: expected 400, got %d", rec.Code)
	}

	// Another user cannot see or delete alice's edge.
	rec = api.do(t, http.MethodGet, "/api/v1/follow/"+created.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign get: expected 404, got %d", rec.Code)
	}
	rec = api.do(t, http.MethodDelete, "/api/v1/follow/"+created.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete: expected 404, got %d", rec.Code)
	}

	rec = api.do(t, http.MethodDelete, "/api/v1/follow/"+created.ID, aliceToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("own delete: expected 204, got %d", rec.Code)
	}
}

func TestFollowUnknownUser_NotFound(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")

	rec := api.do(t, http.MethodPost, "/api/v1/follow", api.tokenFor(alice),
		map[string]string{"following": "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUsersMe(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")

	rec := api.do(t, http.MethodGet, "/api/v1/users/me", api.tokenFor(alice), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Username != "alice" {
		t.Errorf("username: got %q", resp.Username)
	}

	rec = api.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}
}

func TestInvalidBearerToken_Rejected(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/posts", "no-such-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPostCreate_InGroup(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	alice := api.store.addUser("alice")
	g := &domain.Group{ID: uuid.New(), Title: "Cats", Slug: "cats", CreatedAt: time.Now()}
	api.store.groups[g.ID] = g

	rec := api.do(t, http.MethodPost, "/api/v1/posts", api.tokenFor(alice),
		map[string]string{"text": "meow", "group": "cats"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var created postResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Group == nil || *created.Group != g.ID.String() {
		t.Errorf("group: got %v, want %s", created.Group, g.ID)
	}

	rec = api.do(t, http.MethodPost, "/api/v1/posts", api.tokenFor(alice),
		map[string]string{"text": "meow", "group": "no-such"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown group: expected 404, got %d", rec.Code)
	}
}
