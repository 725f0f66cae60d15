package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LessonFilter параметры выборки уроков
type LessonFilter struct {
	TeacherID  *int64
	StudentID  *int64
	DateFrom   *time.Time
	DateTo     *time.Time
	DateEq     *time.Time
	IsApproved *bool
	OrderBy    string // "date" или "created_at"
	Desc       bool
	Limit      int
	Offset     int
}

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

const lessonColumns = `id, teacher_id, student_id, date, duration, meetup_place_id, dropoff_place_id,
		price, comments, is_approved, deleted, creator_id, created_at`

// Create создаёт новый урок
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (teacher_id, student_id, date, duration, meetup_place_id, dropoff_place_id,
			price, comments, is_approved, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.Date,
		lesson.Duration,
		lesson.MeetupPlaceID,
		lesson.DropoffPlaceID,
		lesson.Price,
		lesson.Comments,
		lesson.IsApproved,
		lesson.CreatorID,
	).Scan(&lesson.ID, &lesson.CreatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает урок по ID (включая удалённые)
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE id = $1
	`

	var lesson model.Lesson
	err := r.scanLesson(r.pool.QueryRow(ctx, query, id), &lesson)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return &lesson, nil
}

// Update обновляет изменяемые поля урока
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET date = $1, duration = $2, student_id = $3, meetup_place_id = $4, dropoff_place_id = $5,
			price = $6, comments = $7, is_approved = $8
		WHERE id = $9
	`

	result, err := r.pool.Exec(
		ctx, query,
		lesson.Date,
		lesson.Duration,
		lesson.StudentID,
		lesson.MeetupPlaceID,
		lesson.DropoffPlaceID,
		lesson.Price,
		lesson.Comments,
		lesson.IsApproved,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}

// SetApproved выставляет флаг подтверждения урока
func (r *LessonRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	query := `
		UPDATE lessons
		SET is_approved = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, approved, id)
	if err != nil {
		return fmt.Errorf("set lesson approved: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}

// SetDeleted мягко удаляет урок (строка остаётся в таблице)
func (r *LessonRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	query := `
		UPDATE lessons
		SET deleted = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, deleted, id)
	if err != nil {
		return fmt.Errorf("set lesson deleted: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}

// TakenLessons получает неудалённые уроки учителя за интервал [from, to).
// exceptID исключает сам редактируемый урок из проверки занятости.
func (r *LessonRepository) TakenLessons(ctx context.Context, teacherID int64, from, to time.Time, onlyApproved bool, exceptID int64) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE teacher_id = $1
		  AND deleted = FALSE
		  AND date >= $2
		  AND date < $3
		  AND id != $4
	`
	if onlyApproved {
		query += ` AND is_approved = TRUE`
	}
	query += ` ORDER BY date`

	rows, err := r.pool.Query(ctx, query, teacherID, from, to, exceptID)
	if err != nil {
		return nil, fmt.Errorf("get taken lessons: %w", err)
	}
	defer rows.Close()

	return r.collectLessons(rows)
}

// ExistsApprovedAt проверяет есть ли другой подтверждённый урок на это же время
func (r *LessonRepository) ExistsApprovedAt(ctx context.Context, date time.Time, exceptID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM lessons
			WHERE date = $1 AND id != $2 AND is_approved = TRUE AND deleted = FALSE
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, date, exceptID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check approved lesson exists: %w", err)
	}

	return exists, nil
}

// CountApprovedBefore считает подтверждённые уроки ученика до указанной даты
func (r *LessonRepository) CountApprovedBefore(ctx context.Context, studentID int64, before time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons
		WHERE student_id = $1 AND is_approved = TRUE AND deleted = FALSE AND date < $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, studentID, before).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approved lessons before: %w", err)
	}

	return count, nil
}

// List получает уроки по фильтру с пагинацией, удалённые не включаются
func (r *LessonRepository) List(ctx context.Context, filter LessonFilter) ([]*model.Lesson, int, error) {
	where := []string{"deleted = FALSE"}
	args := []interface{}{}

	addCond := func(cond string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.TeacherID != nil {
		addCond("teacher_id = $%d", *filter.TeacherID)
	}
	if filter.StudentID != nil {
		addCond("student_id = $%d", *filter.StudentID)
	}
	if filter.DateFrom != nil {
		addCond("date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCond("date <= $%d", *filter.DateTo)
	}
	if filter.DateEq != nil {
		addCond("date = $%d", *filter.DateEq)
	}
	if filter.IsApproved != nil {
		addCond("is_approved = $%d", *filter.IsApproved)
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM lessons WHERE ` + whereClause

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	orderBy := "date"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, lessonColumns, whereClause, orderBy, direction, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons, err := r.collectLessons(rows)
	if err != nil {
		return nil, 0, err
	}

	return lessons, total, nil
}

func (r *LessonRepository) collectLessons(rows pgx.Rows) ([]*model.Lesson, error) {
	var lessons []*model.Lesson
	for rows.Next() {
		var lesson model.Lesson
		if err := r.scanLesson(rows, &lesson); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}

	return lessons, nil
}

func (r *LessonRepository) scanLesson(row pgx.Row, lesson *model.Lesson) error {
	return row.Scan(
		&lesson.ID,
		&lesson.TeacherID,
		&lesson.StudentID,
		&lesson.Date,
		&lesson.Duration,
		&lesson.MeetupPlaceID,
		&lesson.DropoffPlaceID,
		&lesson.Price,
		&lesson.Comments,
		&lesson.IsApproved,
		&lesson.Deleted,
		&lesson.CreatorID,
		&lesson.CreatedAt,
	)
}
