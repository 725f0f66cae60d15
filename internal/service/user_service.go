package service

import (
	"context"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"go.uber.org/zap"
)

// UserService доступ к текущему пользователю и его ролям
type UserService struct {
	users    UserStore
	teachers TeacherStore
	students StudentStore
	logger   *zap.Logger
}

func NewUserService(users UserStore, teachers TeacherStore, students StudentStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		teachers: teachers,
		students: students,
		logger:   logger,
	}
}

// GetByAuthToken получает пользователя по токену с подгруженными ролями.
// (nil, nil) - токен никому не принадлежит
func (s *UserService) GetByAuthToken(ctx context.Context, token string) (*model.User, error) {
	user, err := s.users.GetByAuthToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := s.attachRoles(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// attachRoles подгружает роль учителя или ученика
func (s *UserService) attachRoles(ctx context.Context, user *model.User) error {
	teacher, err := s.teachers.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if teacher != nil {
		user.Teacher = teacher
		return nil
	}

	student, err := s.students.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Student = student

	return nil
}
