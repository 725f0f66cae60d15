package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentFilter параметры выборки платежей
type PaymentFilter struct {
	TeacherID *int64
	StudentID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Desc      bool
	Limit     int
	Offset    int
}

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create создаёт новый платёж
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (teacher_id, student_id, amount, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		payment.TeacherID,
		payment.StudentID,
		payment.Amount,
		payment.Details,
	).Scan(&payment.ID, &payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// List получает платежи по фильтру с пагинацией
func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*model.Payment, int, error) {
	where := []string{"TRUE"}
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
		addCond("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCond("created_at <= $%d", *filter.DateTo)
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM payments WHERE ` + whereClause

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, teacher_id, student_id, amount, details, created_at
		FROM payments
		WHERE %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, whereClause, direction, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var payment model.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.TeacherID,
			&payment.StudentID,
			&payment.Amount,
			&payment.Details,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, total, nil
}
