package repository

import (
	"context"
	"fmt"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, password, name, area, auth_token, firebase_token, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.Email,
		user.Password,
		user.Name,
		user.Area,
		user.AuthToken,
		user.FirebaseToken,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, email, password, name, area, auth_token, firebase_token, is_admin, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByAuthToken получает пользователя по токену авторизации
func (r *UserRepository) GetByAuthToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT id, email, password, name, area, auth_token, firebase_token, is_admin, created_at
		FROM users
		WHERE auth_token = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, token))
}

// UpdateFirebaseToken сохраняет push-токен пользователя
func (r *UserRepository) UpdateFirebaseToken(ctx context.Context, id int64, token string) error {
	query := `
		UPDATE users
		SET firebase_token = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return fmt.Errorf("update firebase token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.Area,
		&user.AuthToken,
		&user.FirebaseToken,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
