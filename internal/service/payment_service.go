package service

import (
	"context"
	"net/url"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/repository"
	"go.uber.org/zap"
)

// PaymentService выборка платежей (запись цен уроков, не процессинг)
type PaymentService struct {
	payments PaymentStore
	logger   *zap.Logger
}

func NewPaymentService(payments PaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, logger: logger}
}

// List получает платежи пользователя по фильтрам из query-параметров
func (s *PaymentService) List(ctx context.Context, user *model.User, params url.Values, limit, offset int) ([]*model.Payment, int, error) {
	filter := repository.PaymentFilter{Limit: limit, Offset: offset}

	switch {
	case user.IsTeacher():
		filter.TeacherID = &user.Teacher.ID
	case user.IsStudent():
		filter.StudentID = &user.Student.ID
	default:
		return nil, 0, BadRequest("User is not a teacher or a student.")
	}

	if err := applyPaymentParams(&filter, params); err != nil {
		return nil, 0, err
	}

	return s.payments.List(ctx, filter)
}
