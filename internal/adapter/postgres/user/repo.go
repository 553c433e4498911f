// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsmolkin/feedline/internal/adapter/postgres"
	"github.com/dsmolkin/feedline/internal/domain"
)

const table = "users"

var columns = []string{"id", "email", "username", "password_hash", "created_at", "updated_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username}, username)
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, email)
}

func (r *Repo) getBy(ctx context.Context, where squirrel.Eq, key any) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u domain.User
	err = q.QueryRow(ctx, sql, args...).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", key)
	}

	return &u, nil
}

// Create inserts a new user and returns the persisted row.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(u.ID, u.Email, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + joined()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user insert: %w", err)
	}

	var created domain.User
	err = q.QueryRow(ctx, sql, args...).Scan(
		&created.ID, &created.Email, &created.Username, &created.PasswordHash,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	return &created, nil
}

// DeleteCascade removes a user and everything that references them:
// comments they authored, comments on their posts, their posts, follow
// edges on either side, and their refresh tokens. The caller is expected
// to run this inside a transaction so a partial cascade never commits.
func (r *Repo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	statements := []squirrel.Sqlizer{
		postgres.Builder.Delete("comments").
			Where("post_id IN (SELECT id FROM posts WHERE author_id = ?)", id),
		postgres.Builder.Delete("comments").Where(squirrel.Eq{"author_id": id}),
		postgres.Builder.Delete("posts").Where(squirrel.Eq{"author_id": id}),
		postgres.Builder.Delete("follows").
			Where(squirrel.Or{squirrel.Eq{"user_id": id}, squirrel.Eq{"following_id": id}}),
		postgres.Builder.Delete("refresh_tokens").Where(squirrel.Eq{"user_id": id}),
		postgres.Builder.Delete(table).Where(squirrel.Eq{"id": id}),
	}

	for i, stmt := range statements {
		sql, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("build cascade statement %d: %w", i, err)
		}
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return postgres.MapError(err, "user", id)
		}
		// The final statement targets the user row itself.
		if i == len(statements)-1 && tag.RowsAffected() == 0 {
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
	}

	return nil
}

func joined() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
