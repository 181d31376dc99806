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

	"conduit-backend/internal/domains/user"
	"conduit-backend/pkg/cache"
)

// postgresRepository là concrete implementation của user.Repository
// Struct PRIVATE - bên ngoài chỉ thấy interface
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache // Redis cache layer (injected dependency)
}

// NewPostgresRepository - return interface thay vì concrete type
// để code phụ thuộc vào abstraction, dễ mock trong testing
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const userColumns = `
	id, username, email, password_hash, bio, image, token,
	is_active, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Bio,
		&u.Image,
		&u.Token,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// mapUniqueViolation map PostgreSQL unique_violation (23505) thành domain error
// Constraint name cho biết field nào bị duplicate
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return user.ErrUsernameAlreadyExists
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return user.ErrEmailAlreadyExists
		}
	}
	return err
}

// ========================================
// USERS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, bio, image, token,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Bio,
		u.Image,
		u.Token,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)

	if err != nil {
		// Duplicate registration resolve tại storage layer qua unique
		// constraints, không phải application-level locking
		return mapUniqueViolation(err)
	}

	return nil
}

// FindByID tìm user theo UUID với Redis caching (cache-aside pattern)
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	cacheKey := fmt.Sprintf("user:%s", id.String())

	var cached user.User
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		// Cache HIT - không cần query DB
		return &cached, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	// TTL 15 phút - ignore cache errors, request không nên fail vì cache
	_ = r.cache.Set(ctx, cacheKey, u, 15*time.Minute)

	return u, nil
}

// FindByEmail - dùng cho login, không cache
func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// Update cập nhật user row và invalidate cache
func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET
			username = $2,
			email = $3,
			password_hash = $4,
			bio = $5,
			image = $6,
			updated_at = $7
		WHERE id = $1
	`

	u.UpdatedAt = time.Now()

	result, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Bio,
		u.Image,
		u.UpdatedAt,
	)

	if err != nil {
		return mapUniqueViolation(err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	// Invalidate cache - next read sẽ load fresh data
	_ = r.cache.Delete(ctx, fmt.Sprintf("user:%s", u.ID.String()))

	return nil
}

// UpdateToken persist access token mới nhất lên user row
func (r *postgresRepository) UpdateToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET token = $2, updated_at = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, token, time.Now())
	if err != nil {
		return fmt.Errorf("update token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	_ = r.cache.Delete(ctx, fmt.Sprintf("user:%s", id.String()))

	return nil
}

// ========================================
// FOLLOWS
// ========================================

// Follow tạo follow pair nếu chưa tồn tại.
// ON CONFLICT DO NOTHING: race giữa hai request đồng thời resolve ở
// storage layer - đúng một request thấy created=true.
func (r *postgresRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, followerID, followingID, time.Now())
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *postgresRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`

	result, err := r.pool.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *postgresRepository) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND following_id = $2
		)
	`

	var following bool
	if err := r.pool.QueryRow(ctx, query, followerID, followingID).Scan(&following); err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}

	return following, nil
}
