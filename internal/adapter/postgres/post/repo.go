// Package post implements the Post repository using PostgreSQL.
package post

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

// All post reads join users so the author comes back as a username,
// which is how posts serialize.
const selectColumns = "p.id, p.text, p.pub_date, p.author_id, u.username, p.image, p.group_id"

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func selectBase() squirrel.SelectBuilder {
	return postgres.Builder.
		Select(selectColumns).
		From("posts p").
		Join("users u ON u.id = p.author_id")
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.Author, &p.Image, &p.GroupID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts matching the filter, ordered by publication time.
// Author and group filters are exact matches combined with AND; a zero
// limit means no limit.
func (r *Repo) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := selectBase().OrderBy("p.pub_date", "p.id")

	if filter.Author != "" {
		query = query.Where(squirrel.Eq{"u.username": filter.Author})
	}
	if filter.GroupSlug != "" {
		query = query.
			Join("groups g ON g.id = p.group_id").
			Where(squirrel.Eq{"g.slug": filter.GroupSlug})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", "list")
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, postgres.MapError(err, "post", "list")
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "post", "list")
	}

	return posts, nil
}

// GetByID returns a post by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := selectBase().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post query: %w", err)
	}

	p, err := scanPost(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	return p, nil
}

// ExistsByID reports whether a post with the given id is persisted.
// Comment scoping resolves the parent post through this check.
func (r *Repo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("posts").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build post exists: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "post", id)
	}

	return exists, nil
}

// Create inserts a new post and returns the persisted row with the
// author username resolved.
func (r *Repo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("posts").
		Columns("id", "text", "pub_date", "author_id", "image", "group_id").
		Values(p.ID, p.Text, p.PubDate, p.AuthorID, p.Image, p.GroupID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", p.ID)
	}

	return r.GetByID(ctx, p.ID)
}

// Update modifies text, image and group for the given post. Author and
// publication date are write-once and never touched.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, text string, image *string, groupID *uuid.UUID) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("posts").
		Set("text", text).
		Set("image", image).
		Set("group_id", groupID).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

// DeleteCascade removes a post and its comments. The caller runs it
// inside a transaction so a partial cascade never commits.
func (r *Repo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	delComments, argsC, err := postgres.Builder.
		Delete("comments").
		Where(squirrel.Eq{"post_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build comment cascade: %w", err)
	}
	if _, err := q.Exec(ctx, delComments, argsC...); err != nil {
		return postgres.MapError(err, "post", id)
	}

	delPost, argsP, err := postgres.Builder.
		Delete("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build post delete: %w", err)
	}
	tag, err := q.Exec(ctx, delPost, argsP...)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
