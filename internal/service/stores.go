package service

import (
	"context"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/repository"
)

// Интерфейсы хранилищ, реализуемые пакетом repository.
// Сервисы зависят от них, а не от конкретных репозиториев,
// поэтому в тестах хранилища подменяются in-memory фейками.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByAuthToken(ctx context.Context, token string) (*model.User, error)
}

type TeacherStore interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error)
	WorkDaysForDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error)
}

type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Student, error)
	ApprovedLessonCount(ctx context.Context, studentID int64) (int, error)
}

type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	SetApproved(ctx context.Context, id int64, approved bool) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
	TakenLessons(ctx context.Context, teacherID int64, from, to time.Time, onlyApproved bool, exceptID int64) ([]*model.Lesson, error)
	ExistsApprovedAt(ctx context.Context, date time.Time, exceptID int64) (bool, error)
	CountApprovedBefore(ctx context.Context, studentID int64, before time.Time) (int, error)
	List(ctx context.Context, filter repository.LessonFilter) ([]*model.Lesson, int, error)
}

type PlaceStore interface {
	CreateOrFind(ctx context.Context, studentID int64, name string, usedAs model.PlaceType) (*model.Place, error)
	GetByID(ctx context.Context, id int64) (*model.Place, error)
}

type TopicStore interface {
	GetByID(ctx context.Context, id int64) (*model.Topic, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Topic, error)
	ForLessonNumber(ctx context.Context, lessonNumber int) ([]*model.Topic, error)
	StudentTopicIDs(ctx context.Context, studentID int64, finished bool) ([]int64, error)
	LessonTopicIDs(ctx context.Context, lessonID int64, finished bool) ([]int64, error)
	AppendLessonTopic(ctx context.Context, lessonTopic *model.LessonTopic) error
}

type PaymentStore interface {
	List(ctx context.Context, filter repository.PaymentFilter) ([]*model.Payment, int, error)
}
