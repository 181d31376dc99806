package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"conduit-backend/internal/domains/tag"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) tag.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

func (r *postgresRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM tags ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
