package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/shared/utils"
	"conduit-backend/pkg/database"
)

// postgresRepository là concrete implementation của article.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) article.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// metaColumns là column list cho denormalized article reads.
// $1 luôn là viewerID (uuid.Nil cho anonymous - EXISTS không match row nào)
const metaColumns = `
	a.id, a.slug, a.title, a.description, a.body, a.author_id,
	a.views_count, a.created_at, a.updated_at,
	u.username, u.bio, u.image,
	EXISTS (
		SELECT 1 FROM follows f
		WHERE f.follower_id = $1 AND f.following_id = a.author_id
	) AS author_following,
	COALESCE(ARRAY(
		SELECT t.name FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = a.id
		ORDER BY t.name
	), '{}') AS tag_names,
	(SELECT COUNT(*) FROM favorites fv WHERE fv.article_id = a.id) AS favorites_count,
	EXISTS (
		SELECT 1 FROM favorites fv
		WHERE fv.article_id = a.id AND fv.user_id = $1
	) AS favorited
`

const metaFrom = `
	FROM articles a
	JOIN users u ON u.id = a.author_id
`

func scanMeta(row pgx.Row) (*article.ArticleMeta, error) {
	var m article.ArticleMeta
	err := row.Scan(
		&m.ID,
		&m.Slug,
		&m.Title,
		&m.Description,
		&m.Body,
		&m.AuthorID,
		&m.ViewsCount,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.AuthorUsername,
		&m.AuthorBio,
		&m.AuthorImage,
		&m.AuthorFollowing,
		pq.Array(&m.TagNames),
		&m.FavoritesCount,
		&m.Favorited,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, article.ErrArticleNotFound
		}
		return nil, err
	}
	return &m, nil
}

// mapSlugViolation map unique_violation trên slug thành domain error
func mapSlugViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "slug") {
			return article.ErrSlugAlreadyTaken
		}
	}
	return err
}

// ========================================
// ARTICLES
// ========================================

// Create insert article và tags trong một transaction
func (r *postgresRepository) Create(ctx context.Context, a *article.Article, tags []string) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO articles (
				id, slug, title, description, body, author_id,
				views_count, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.Exec(ctx, query,
			a.ID,
			a.Slug,
			a.Title,
			a.Description,
			a.Body,
			a.AuthorID,
			a.ViewsCount,
			a.CreatedAt,
			a.UpdatedAt,
		)
		if err != nil {
			return mapSlugViolation(err)
		}

		return attachTags(ctx, tx, a.ID, tags)
	})

	if err != nil {
		if errors.Is(err, article.ErrSlugAlreadyTaken) {
			return err
		}
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

// attachTags upsert tag names và link chúng vào article.
// ON CONFLICT DO UPDATE để RETURNING luôn trả id, kể cả khi tag đã tồn tại.
func attachTags(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, tags []string) error {
	for _, name := range tags {
		var tagID uuid.UUID
		upsert := `
			INSERT INTO tags (id, name, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`
		if err := tx.QueryRow(ctx, upsert, uuid.New(), name, time.Now()).Scan(&tagID); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}

		link := `
			INSERT INTO article_tags (article_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT (article_id, tag_id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, link, articleID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	query := `
		SELECT id, slug, title, description, body, author_id,
			views_count, created_at, updated_at
		FROM articles
		WHERE id = $1
	`

	var a article.Article
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Description,
		&a.Body,
		&a.AuthorID,
		&a.ViewsCount,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, article.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article by id: %w", err)
	}

	return &a, nil
}

func (r *postgresRepository) FindMetaByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*article.ArticleMeta, error) {
	query := `SELECT ` + metaColumns + metaFrom + ` WHERE a.id = $2`

	m, err := scanMeta(r.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find article meta: %w", err)
	}

	return m, nil
}

func (r *postgresRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return exists, nil
}

// Update cập nhật article row, optionally thay tag set và append history
// snapshot - tất cả trong một transaction
func (r *postgresRepository) Update(ctx context.Context, a *article.Article, tags []string, replaceTags bool, snapshot *article.ArticleHistory) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// History snapshot TRƯỚC khi ghi đè - append-only, không update
		if snapshot != nil {
			insert := `
				INSERT INTO article_history (
					id, article_id, slug, title, description, body, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
			`
			_, err := tx.Exec(ctx, insert,
				snapshot.ID,
				snapshot.ArticleID,
				snapshot.Slug,
				snapshot.Title,
				snapshot.Description,
				snapshot.Body,
				snapshot.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
		}

		query := `
			UPDATE articles
			SET
				slug = $2,
				title = $3,
				description = $4,
				body = $5,
				updated_at = $6
			WHERE id = $1
		`

		a.UpdatedAt = time.Now()

		result, err := tx.Exec(ctx, query,
			a.ID,
			a.Slug,
			a.Title,
			a.Description,
			a.Body,
			a.UpdatedAt,
		)
		if err != nil {
			return mapSlugViolation(err)
		}

		if result.RowsAffected() == 0 {
			return article.ErrArticleNotFound
		}

		if replaceTags {
			if _, err := tx.Exec(ctx, `DELETE FROM article_tags WHERE article_id = $1`, a.ID); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			return attachTags(ctx, tx, a.ID, tags)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) || errors.Is(err, article.ErrSlugAlreadyTaken) {
			return err
		}
		return fmt.Errorf("update article: %w", err)
	}

	return nil
}

// Delete xóa article và toàn bộ dependent rows.
// Schema có ON DELETE CASCADE nhưng delete tường minh để thứ tự rõ ràng
// và không phụ thuộc schema version.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM comments WHERE article_id = $1`,
			`DELETE FROM favorites WHERE article_id = $1`,
			`DELETE FROM article_tags WHERE article_id = $1`,
			`DELETE FROM article_history WHERE article_id = $1`,
		}

		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("delete article dependents: %w", err)
			}
		}

		result, err := tx.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete article: %w", err)
		}

		if result.RowsAffected() == 0 {
			return article.ErrArticleNotFound
		}

		return nil
	})
}

// IncrementViews - atomic increment, không read-modify-write
func (r *postgresRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE articles SET views_count = views_count + 1 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	return nil
}

// ========================================
// LISTING
// ========================================

// buildListFilters dựng WHERE clauses cho List với positional args.
// Username và tag matches là case-insensitive, date bounds là inclusive.
func buildListFilters(filter article.ListArticlesRequest, viewerID uuid.UUID) ([]string, []interface{}) {
	clauses := []string{}
	args := []interface{}{viewerID}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		clauses = append(clauses, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM article_tags at2
			JOIN tags t2 ON t2.id = at2.tag_id
			WHERE at2.article_id = a.id AND LOWER(t2.name) = LOWER($%d)
		)`, len(args)))
	}

	if filter.Author != "" {
		args = append(args, filter.Author)
		clauses = append(clauses, fmt.Sprintf(`LOWER(u.username) = LOWER($%d)`, len(args)))
	}

	if filter.Favorited != "" {
		args = append(args, filter.Favorited)
		clauses = append(clauses, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM favorites fv2
			JOIN users fu ON fu.id = fv2.user_id
			WHERE fv2.article_id = a.id AND LOWER(fu.username) = LOWER($%d)
		)`, len(args)))
	}

	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		clauses = append(clauses, fmt.Sprintf(`a.created_at <= $%d`, len(args)))
	}

	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		clauses = append(clauses, fmt.Sprintf(`a.created_at >= $%d`, len(args)))
	}

	return clauses, args
}

// List query articles theo filters (AND semantics) với total count.
// COUNT(*) OVER() trả total trên mỗi row - một round-trip thay vì hai.
func (r *postgresRepository) List(ctx context.Context, filter article.ListArticlesRequest, viewerID uuid.UUID) ([]article.ArticleMeta, int, error) {
	clauses, args := buildListFilters(filter, viewerID)

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + utils.JoinWithAnd(clauses)
	}

	return r.queryMetaPage(ctx, where, args, filter.Limit, filter.Offset)
}

// Feed trả articles của các authors mà user đang follow, mới nhất trước
func (r *postgresRepository) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]article.ArticleMeta, int, error) {
	// $1 vừa là viewerID cho personalization vừa là follower trong filter
	where := ` WHERE a.author_id IN (
		SELECT following_id FROM follows WHERE follower_id = $1
	)`

	return r.queryMetaPage(ctx, where, []interface{}{userID}, limit, offset)
}

// queryMetaPage chạy metaSelect + where với pagination, scan page và total
func (r *postgresRepository) queryMetaPage(ctx context.Context, where string, args []interface{}, limit, offset int) ([]article.ArticleMeta, int, error) {
	args = append(args, limit, offset)
	query := `SELECT ` + metaColumns + `, COUNT(*) OVER() AS total` + metaFrom +
		where +
		fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var metas []article.ArticleMeta
	total := 0

	for rows.Next() {
		var m article.ArticleMeta
		err := rows.Scan(
			&m.ID,
			&m.Slug,
			&m.Title,
			&m.Description,
			&m.Body,
			&m.AuthorID,
			&m.ViewsCount,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.AuthorUsername,
			&m.AuthorBio,
			&m.AuthorImage,
			&m.AuthorFollowing,
			pq.Array(&m.TagNames),
			&m.FavoritesCount,
			&m.Favorited,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		metas = append(metas, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	return metas, total, nil
}

// ========================================
// FAVORITES
// ========================================

// Favorite tạo favorite pair nếu chưa tồn tại.
// ON CONFLICT DO NOTHING - double-favorite giữ đúng một row
func (r *postgresRepository) Favorite(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO favorites (user_id, article_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, userID, articleID, time.Now())
	if err != nil {
		return false, fmt.Errorf("create favorite: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *postgresRepository) Unfavorite(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND article_id = $2
	`

	result, err := r.pool.Exec(ctx, query, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ========================================
// HISTORY
// ========================================

func (r *postgresRepository) ListHistory(ctx context.Context, articleID uuid.UUID) ([]article.ArticleHistory, error) {
	query := `
		SELECT id, article_id, slug, title, description, body, updated_at
		FROM article_history
		WHERE article_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []article.ArticleHistory
	for rows.Next() {
		var h article.ArticleHistory
		err := rows.Scan(
			&h.ID,
			&h.ArticleID,
			&h.Slug,
			&h.Title,
			&h.Description,
			&h.Body,
			&h.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, h)
	}

	return entries, rows.Err()
}
