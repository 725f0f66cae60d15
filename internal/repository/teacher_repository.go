package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// Create создаёт нового учителя
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	query := `
		INSERT INTO teachers (user_id, price, lesson_duration, is_approved, crn)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		teacher.UserID,
		teacher.Price,
		teacher.LessonDuration,
		teacher.IsApproved,
		teacher.CRN,
	).Scan(&teacher.ID, &teacher.CreatedAt)

	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, price, lesson_duration, is_approved, crn, created_at
		FROM teachers
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID получает учителя по ID пользователя
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, price, lesson_duration, is_approved, crn, created_at
		FROM teachers
		WHERE user_id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

// WorkDaysForDate получает рабочие окна учителя на конкретную дату.
// Разовые окна (on_specific_date) перекрывают обычные окна дня недели.
func (r *TeacherRepository) WorkDaysForDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	day := model.DayFromWeekday(date.Weekday())

	query := `
		SELECT id, teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_specific_date, car_id
		FROM work_days
		WHERE teacher_id = $1 AND on_specific_date = $2::date
		ORDER BY from_hour, from_minutes
	`

	workDays, err := r.queryWorkDays(ctx, query, teacherID, date)
	if err != nil {
		return nil, err
	}
	if len(workDays) > 0 {
		return workDays, nil
	}

	query = `
		SELECT id, teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_specific_date, car_id
		FROM work_days
		WHERE teacher_id = $1 AND day = $2 AND on_specific_date IS NULL
		ORDER BY from_hour, from_minutes
	`

	return r.queryWorkDays(ctx, query, teacherID, day)
}

// AddWorkDay добавляет рабочее окно учителя
func (r *TeacherRepository) AddWorkDay(ctx context.Context, workDay *model.WorkDay) error {
	query := `
		INSERT INTO work_days (teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_specific_date, car_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.pool.QueryRow(
		ctx, query,
		workDay.TeacherID,
		workDay.Day,
		workDay.FromHour,
		workDay.FromMinutes,
		workDay.ToHour,
		workDay.ToMinutes,
		workDay.OnSpecificDate,
		workDay.CarID,
	).Scan(&workDay.ID)

	if err != nil {
		return fmt.Errorf("add work day: %w", err)
	}

	return nil
}

func (r *TeacherRepository) queryWorkDays(ctx context.Context, query string, args ...interface{}) ([]*model.WorkDay, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get work days: %w", err)
	}
	defer rows.Close()

	var workDays []*model.WorkDay
	for rows.Next() {
		var wd model.WorkDay
		err := rows.Scan(
			&wd.ID,
			&wd.TeacherID,
			&wd.Day,
			&wd.FromHour,
			&wd.FromMinutes,
			&wd.ToHour,
			&wd.ToMinutes,
			&wd.OnSpecificDate,
			&wd.CarID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan work day: %w", err)
		}
		workDays = append(workDays, &wd)
	}

	return workDays, nil
}

func (r *TeacherRepository) scanOne(row pgx.Row) (*model.Teacher, error) {
	var teacher model.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.Price,
		&teacher.LessonDuration,
		&teacher.IsApproved,
		&teacher.CRN,
		&teacher.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	return &teacher, nil
}
