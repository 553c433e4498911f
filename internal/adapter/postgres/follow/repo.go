// Package follow implements the Follow repository using PostgreSQL.
//
// Every read and delete carries the follower's user id: follow edges are
// only ever visible to the user who owns them.
package follow

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsmolkin/feedline/internal/adapter/postgres"
	"github.com/dsmolkin/feedline/internal/domain"
)

const selectColumns = "f.id, f.user_id, f.following_id, fu.username, tu.username, f.created_at"

// Repo provides follow-edge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func selectBase() squirrel.SelectBuilder {
	return postgres.Builder.
		Select(selectColumns).
		From("follows f").
		Join("users fu ON fu.id = f.user_id").
		Join("users tu ON tu.id = f.following_id")
}

func scanFollow(row pgx.Row) (*domain.Follow, error) {
	var f domain.Follow
	err := row.Scan(&f.ID, &f.UserID, &f.FollowingID, &f.User, &f.Following, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByUser returns the user's follow edges, optionally narrowed by a
// case-insensitive substring match on the followed username.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Follow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := selectBase().
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at", "f.id")

	if search != "" {
		query = query.Where(squirrel.ILike{"tu.username": "%" + search + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build follow list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}
	defer rows.Close()

	var follows []*domain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return nil, postgres.MapError(err, "follow", userID)
		}
		follows = append(follows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}

	return follows, nil
}

// GetByID returns a follow edge by id, scoped to its owner. Another
// user's edge is not found here.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Follow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := selectBase().
		Where(squirrel.Eq{"f.id": id, "f.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build follow query: %w", err)
	}

	f, err := scanFollow(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "follow", id)
	}

	return f, nil
}

// PairExists reports whether a (user, following) edge is persisted.
func (r *Repo) PairExists(ctx context.Context, userID, followingID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("follows").
		Where(squirrel.Eq{"user_id": userID, "following_id": followingID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build follow exists: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "follow", userID)
	}

	return exists, nil
}

// Create inserts a new follow edge and returns the persisted row with
// usernames resolved. The unique (user_id, following_id) index makes
// concurrent duplicate creates resolve to exactly one success; the loser
// surfaces as domain.ErrAlreadyExists for the caller to remap.
func (r *Repo) Create(ctx context.Context, f *domain.Follow) (*domain.Follow, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("follows").
		Columns("id", "user_id", "following_id", "created_at").
		Values(f.ID, f.UserID, f.FollowingID, f.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build follow insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "follow", f.ID)
	}

	return r.GetByID(ctx, f.UserID, f.ID)
}

// Delete removes a follow edge by id, scoped to its owner.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Delete("follows").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build follow delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "follow", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("follow %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
