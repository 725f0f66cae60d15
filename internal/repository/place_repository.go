package repository

import (
	"context"
	"fmt"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceRepository(pool *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{pool: pool}
}

// CreateOrFind находит место ученика по названию и типу или создаёт новое.
// Повторное использование существующего места увеличивает счётчик times_used.
func (r *PlaceRepository) CreateOrFind(ctx context.Context, studentID int64, name string, usedAs model.PlaceType) (*model.Place, error) {
	if name == "" {
		return nil, nil
	}

	query := `
		SELECT id, student_id, name, used_as, times_used, created_at
		FROM places
		WHERE student_id = $1 AND used_as = $2 AND name = $3
	`

	var place model.Place
	err := r.pool.QueryRow(ctx, query, studentID, usedAs, name).Scan(
		&place.ID,
		&place.StudentID,
		&place.Name,
		&place.UsedAs,
		&place.TimesUsed,
		&place.CreatedAt,
	)

	if err == nil {
		update := `
			UPDATE places
			SET times_used = times_used + 1
			WHERE id = $1
		`
		if _, err := r.pool.Exec(ctx, update, place.ID); err != nil {
			return nil, fmt.Errorf("bump place usage: %w", err)
		}
		place.TimesUsed++
		return &place, nil
	}

	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("find place: %w", err)
	}

	insert := `
		INSERT INTO places (student_id, name, used_as, times_used)
		VALUES ($1, $2, $3, 1)
		RETURNING id, created_at
	`

	place = model.Place{
		StudentID: studentID,
		Name:      name,
		UsedAs:    usedAs,
		TimesUsed: 1,
	}
	err = r.pool.QueryRow(ctx, insert, studentID, name, usedAs).Scan(&place.ID, &place.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}

	return &place, nil
}

// GetByID получает место по ID
func (r *PlaceRepository) GetByID(ctx context.Context, id int64) (*model.Place, error) {
	query := `
		SELECT id, student_id, name, used_as, times_used, created_at
		FROM places
		WHERE id = $1
	`

	var place model.Place
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&place.ID,
		&place.StudentID,
		&place.Name,
		&place.UsedAs,
		&place.TimesUsed,
		&place.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get place by id: %w", err)
	}

	return &place, nil
}
