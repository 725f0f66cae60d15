package repository

import (
	"context"
	"fmt"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Create создаёт нового ученика
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (user_id, teacher_id, is_approved, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		student.UserID,
		student.TeacherID,
		student.IsApproved,
		student.IsActive,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID получает ученика по ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	query := `
		SELECT id, user_id, teacher_id, is_approved, is_active, created_at
		FROM students
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID получает ученика по ID пользователя
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	query := `
		SELECT id, user_id, teacher_id, is_approved, is_active, created_at
		FROM students
		WHERE user_id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

// ApprovedLessonCount считает подтверждённые неудалённые уроки ученика
func (r *StudentRepository) ApprovedLessonCount(ctx context.Context, studentID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons
		WHERE student_id = $1 AND is_approved = TRUE AND deleted = FALSE
	`

	var count int
	err := r.pool.QueryRow(ctx, query, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approved lessons: %w", err)
	}

	return count, nil
}

func (r *StudentRepository) scanOne(row pgx.Row) (*model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.UserID,
		&student.TeacherID,
		&student.IsApproved,
		&student.IsActive,
		&student.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	return &student, nil
}
