package database

import (
	"context"
	"fmt"
	"log"
)

// schemaStatements được chạy theo thứ tự khi application start.
// CREATE TABLE IF NOT EXISTS nên idempotent - chạy lại không gây hại.
//
// Các unique constraints ở đây là chỗ dựa cho toggle semantics:
// duplicate favorite/follow được resolve bằng ON CONFLICT DO NOTHING,
// duplicate username/email surface thành validation error.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      VARCHAR(150) NOT NULL UNIQUE,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		bio           TEXT,
		image         VARCHAR(255),
		token         VARCHAR(512),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id          UUID PRIMARY KEY,
		slug        VARCHAR(255) NOT NULL UNIQUE,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		body        TEXT NOT NULL,
		author_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		views_count INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_author_created
		ON articles (author_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         UUID PRIMARY KEY,
		article_id UUID NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		body       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_article_created
		ON comments (article_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         UUID PRIMARY KEY,
		name       VARCHAR(50) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS article_tags (
		article_id UUID NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		tag_id     UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (article_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		article_id UUID NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, article_id)
	)`,

	`CREATE TABLE IF NOT EXISTS follows (
		follower_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		following_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (follower_id, following_id),
		CHECK (follower_id <> following_id)
	)`,

	`CREATE TABLE IF NOT EXISTS article_history (
		id          UUID PRIMARY KEY,
		article_id  UUID NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		slug        VARCHAR(255) NOT NULL,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		body        TEXT NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_article_history_article
		ON article_history (article_id, updated_at DESC)`,
}

// EnsureSchema tạo tables nếu chưa tồn tại
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	log.Println("[DATABASE] Ensuring schema...")

	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	log.Println("[DATABASE] Schema ready")
	return nil
}
