package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"conduit-backend/internal/domains/comment"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) comment.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// metaColumns - comment row + author profile. $1 luôn là viewerID.
const metaColumns = `
	c.id, c.article_id, c.author_id, c.body, c.created_at, c.updated_at,
	u.username, u.bio, u.image,
	EXISTS (
		SELECT 1 FROM follows f
		WHERE f.follower_id = $1 AND f.following_id = c.author_id
	) AS author_following
`

const metaFrom = `
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func scanMeta(row pgx.Row) (*comment.CommentMeta, error) {
	var m comment.CommentMeta
	err := row.Scan(
		&m.ID,
		&m.ArticleID,
		&m.AuthorID,
		&m.Body,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.AuthorUsername,
		&m.AuthorBio,
		&m.AuthorImage,
		&m.AuthorFollowing,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, author_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.ArticleID,
		c.AuthorID,
		c.Body,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	query := `
		SELECT id, article_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var c comment.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ArticleID,
		&c.AuthorID,
		&c.Body,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment by id: %w", err)
	}

	return &c, nil
}

func (r *postgresRepository) FindMetaByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*comment.CommentMeta, error) {
	query := `SELECT ` + metaColumns + metaFrom + ` WHERE c.id = $2`

	m, err := scanMeta(r.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, comment.ErrCommentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find comment meta: %w", err)
	}

	return m, nil
}

// ListByArticle trả comments của article, mới nhất trước, với total count
func (r *postgresRepository) ListByArticle(ctx context.Context, articleID, viewerID uuid.UUID, limit, offset int) ([]comment.CommentMeta, int, error) {
	query := `SELECT ` + metaColumns + `, COUNT(*) OVER() AS total` + metaFrom + `
		WHERE c.article_id = $2
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, viewerID, articleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var metas []comment.CommentMeta
	total := 0

	for rows.Next() {
		var m comment.CommentMeta
		err := rows.Scan(
			&m.ID,
			&m.ArticleID,
			&m.AuthorID,
			&m.Body,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.AuthorUsername,
			&m.AuthorBio,
			&m.AuthorImage,
			&m.AuthorFollowing,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		metas = append(metas, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	return metas, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *comment.Comment) error {
	query := `
		UPDATE comments
		SET body = $2, updated_at = $3
		WHERE id = $1
	`

	c.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query, c.ID, c.Body, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return comment.ErrCommentNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return comment.ErrCommentNotFound
	}

	return nil
}
