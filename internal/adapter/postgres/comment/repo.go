// Package comment implements the Comment repository using PostgreSQL.
//
// Every query carries the parent post id: a comment never exists outside
// the context of exactly one post, and callers can only reach comments
// through that post.
package comment

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

const selectColumns = "c.id, c.author_id, u.username, c.post_id, c.text, c.created"

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new comment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func selectBase() squirrel.SelectBuilder {
	return postgres.Builder.
		Select(selectColumns).
		From("comments c").
		Join("users u ON u.id = c.author_id")
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.AuthorID, &c.Author, &c.PostID, &c.Text, &c.Created)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByPost returns the post's comments in creation order, oldest first.
func (r *Repo) ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := selectBase().
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment list: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "comment", postID)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, postgres.MapError(err, "comment", postID)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "comment", postID)
	}

	return comments, nil
}

// GetByID returns a comment by id within the given post. A comment that
// exists under a different post is not found here.
func (r *Repo) GetByID(ctx context.Context, postID, id uuid.UUID) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := selectBase().
		Where(squirrel.Eq{"c.id": id, "c.post_id": postID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment query: %w", err)
	}

	c, err := scanComment(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}

	return c, nil
}

// Create inserts a new comment and returns the persisted row with the
// author username resolved.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Insert("comments").
		Columns("id", "author_id", "post_id", "text", "created").
		Values(c.ID, c.AuthorID, c.PostID, c.Text, c.Created).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment", c.ID)
	}

	return r.GetByID(ctx, c.PostID, c.ID)
}

// Update modifies the text of a comment within the given post. Author,
// post and creation time are write-once and never touched.
func (r *Repo) Update(ctx context.Context, postID, id uuid.UUID, text string) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Update("comments").
		Set("text", text).
		Where(squirrel.Eq{"id": id, "post_id": postID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return r.GetByID(ctx, postID, id)
}

// Delete removes a comment by id within the given post.
func (r *Repo) Delete(ctx context.Context, postID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder.
		Delete("comments").
		Where(squirrel.Eq{"id": id, "post_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build comment delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
