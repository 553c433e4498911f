// Package group implements the Group repository using PostgreSQL.
package group

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsmolkin/feedline/internal/adapter/postgres"
	"github.com/dsmolkin/feedline/internal/domain"
)

const table = "groups"

const selectColumns = "id, title, description, slug, created_at"

// Repo provides group persistence backed by PostgreSQL.
// Group creation is intentionally absent: groups are provisioned
// out-of-band (seed migrations or operator SQL), never through the API.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new group repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns all groups ordered by creation time.
func (r *Repo) List(ctx context.Context) ([]*domain.Group, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(selectColumns).
		From(table).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "group", "list")
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Slug, &g.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "group", "list")
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "group", "list")
	}

	return groups, nil
}

// GetByID returns a group by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetBySlug returns a group by its unique slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	return r.getBy(ctx, squirrel.Eq{"slug": slug}, slug)
}

func (r *Repo) getBy(ctx context.Context, where squirrel.Eq, key any) (*domain.Group, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select(selectColumns).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}

	var g domain.Group
	err = q.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.Title, &g.Description, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "group", key)
	}

	return &g, nil
}

// Update modifies title, description and slug for the given group.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, title, description, slug string) (*domain.Group, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update(table).
		Set("title", title).
		Set("description", description).
		Set("slug", slug).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + selectColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group update: %w", err)
	}

	var g domain.Group
	err = q.QueryRow(ctx, sql, args...).Scan(&g.ID, &g.Title, &g.Description, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "group", id)
	}

	return &g, nil
}

// DeleteCascade removes a group together with the posts tagged to it and
// those posts' comments. The caller runs it inside a transaction so a
// partial cascade never commits.
func (r *Repo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	statements := []squirrel.Sqlizer{
		postgres.Builder.Delete("comments").
			Where("post_id IN (SELECT id FROM posts WHERE group_id = ?)", id),
		postgres.Builder.Delete("posts").Where(squirrel.Eq{"group_id": id}),
		postgres.Builder.Delete(table).Where(squirrel.Eq{"id": id}),
	}

	for i, stmt := range statements {
		sql, args, err := stmt.ToSql()
		if err != nil {
			return fmt.Errorf("build cascade statement %d: %w", i, err)
		}
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return postgres.MapError(err, "group", id)
		}
		if i == len(statements)-1 && tag.RowsAffected() == 0 {
			return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
		}
	}

	return nil
}
