package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/notify"
	"github.com/avtoshkola/driveschool_api/internal/repository"
	"github.com/avtoshkola/driveschool_api/internal/repository/cache"
	"go.uber.org/zap"
)

// LessonPayload тело запроса создания/редактирования урока
type LessonPayload struct {
	Date         string      `json:"date"`
	Duration     *int        `json:"duration"`
	StudentID    *int64      `json:"student_id"`
	MeetupPlace  string      `json:"meetup_place"`
	DropoffPlace string      `json:"dropoff_place"`
	Price        json.Number `json:"price"`
	Comments     string      `json:"comments"`
}

// LessonService управляет жизненным циклом уроков
type LessonService struct {
	users        UserStore
	teachers     TeacherStore
	students     StudentStore
	lessons      LessonStore
	places       PlaceStore
	availability *AvailabilityService
	cache        *cache.AvailabilityCache
	notifier     notify.Notifier
	logger       *zap.Logger
}

func NewLessonService(
	users UserStore,
	teachers TeacherStore,
	students StudentStore,
	lessons LessonStore,
	places PlaceStore,
	availability *AvailabilityService,
	availabilityCache *cache.AvailabilityCache,
	notifier notify.Notifier,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		users:        users,
		teachers:     teachers,
		students:     students,
		lessons:      lessons,
		places:       places,
		availability: availability,
		cache:        availabilityCache,
		notifier:     notifier,
		logger:       logger,
	}
}

// lessonData провалидированные данные нового или редактируемого урока
type lessonData struct {
	date     time.Time
	duration int
	teacher  *model.Teacher
	student  *model.Student
	meetup   *model.Place
	dropoff  *model.Place
	price    *int
	comments string
}

// buildLessonData валидирует запрос и собирает данные урока.
// existing != nil означает редактирование существующего урока.
func (s *LessonService) buildLessonData(ctx context.Context, user *model.User, payload LessonPayload, existing *model.Lesson) (*lessonData, error) {
	if payload.Date == "" {
		return nil, BadRequest("Date is not valid.")
	}

	date, err := time.Parse(model.DateFormat, payload.Date)
	if err != nil {
		return nil, BadRequest("Date is not valid.")
	}
	date = date.UTC()

	// Новый урок в прошлом создать нельзя; при редактировании
	// прошедшая дата остаётся допустимой
	if existing == nil && date.Before(time.Now().UTC()) {
		return nil, BadRequest("Date is not valid.")
	}

	data := &lessonData{date: date, comments: payload.Comments}

	switch {
	case user.IsStudent():
		student := user.Student
		teacher, err := s.teachers.GetByID(ctx, student.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("get teacher: %w", err)
		}
		if teacher == nil {
			return nil, BadRequest("Student has no teacher assigned.")
		}

		var exceptID int64
		if existing != nil {
			exceptID = existing.ID
		}

		available, err := s.availability.IsHourAvailable(ctx, teacher, date, teacher.LessonDuration, exceptID)
		if err != nil {
			return nil, fmt.Errorf("check hour availability: %w", err)
		}
		// Совпадение с собственной датой редактируемого урока конфликтом не считается
		if !available && (existing == nil || !date.Equal(existing.Date)) {
			return nil, BadRequest("This hour is not available.")
		}

		data.teacher = teacher
		data.student = student
		data.duration = teacher.LessonDuration

	case user.IsTeacher():
		teacher := user.Teacher
		data.teacher = teacher
		data.duration = teacher.LessonDuration
		if payload.Duration != nil && *payload.Duration > 0 {
			data.duration = *payload.Duration
		}

		if payload.StudentID == nil {
			return nil, BadRequest("Student does not exist.")
		}
		student, err := s.students.GetByID(ctx, *payload.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student == nil {
			return nil, BadRequest("Student does not exist.")
		}
		data.student = student

	default:
		return nil, BadRequest("User is not a teacher or a student.")
	}

	if data.student != nil {
		meetup, err := s.places.CreateOrFind(ctx, data.student.ID, payload.MeetupPlace, model.PlaceTypeMeetup)
		if err != nil {
			return nil, fmt.Errorf("resolve meetup place: %w", err)
		}
		dropoff, err := s.places.CreateOrFind(ctx, data.student.ID, payload.DropoffPlace, model.PlaceTypeDropoff)
		if err != nil {
			return nil, fmt.Errorf("resolve dropoff place: %w", err)
		}
		data.meetup = meetup
		data.dropoff = dropoff
	}

	// Нечисловая цена не ошибка, просто остаётся пустой
	if value, err := payload.Price.Int64(); err == nil {
		price := int(value)
		data.price = &price
	}

	return data, nil
}

// Create создаёт урок по запросу ученика или учителя.
// Уроки, созданные учителем, сразу подтверждены.
func (s *LessonService) Create(ctx context.Context, user *model.User, payload LessonPayload) (*model.Lesson, error) {
	if payload.Date == "" {
		return nil, BadRequest("Please insert the date of the lesson.")
	}

	data, err := s.buildLessonData(ctx, user, payload, nil)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		TeacherID:  data.teacher.ID,
		Date:       data.date,
		Duration:   data.duration,
		Price:      data.price,
		Comments:   data.comments,
		IsApproved: user.IsTeacher(),
		CreatorID:  user.ID,
	}
	if data.student != nil {
		lesson.StudentID = &data.student.ID
	}
	if data.meetup != nil {
		lesson.MeetupPlaceID = &data.meetup.ID
	}
	if data.dropoff != nil {
		lesson.DropoffPlaceID = &data.dropoff.ID
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	s.cache.InvalidateDay(ctx, lesson.TeacherID, lesson.Date)

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", lesson.TeacherID),
		zap.Time("date", lesson.Date),
		zap.Bool("is_approved", lesson.IsApproved))

	dateStr := lesson.Date.UTC().Format(model.DateFormat)
	s.notifyCounterparty(ctx, lesson, user, "New Lesson!",
		fmt.Sprintf("%s wants to schedule a new lesson at %s. Click here to check it out.", user.Name, dateStr),
		fmt.Sprintf("%s scheduled a new lesson at %s. Click here to check it out.", user.Name, dateStr))

	return lesson, nil
}

// Get получает урок с проверкой, что он принадлежит пользователю
func (s *LessonService) Get(ctx context.Context, user *model.User, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, BadRequest("Lesson does not exist.")
	}

	teacherUser, studentUser, err := s.lessonParties(ctx, lesson)
	if err != nil {
		return nil, err
	}

	allowed := teacherUser != nil && teacherUser.ID == user.ID ||
		studentUser != nil && studentUser.ID == user.ID
	if !allowed {
		return nil, NewRouteError(http.StatusUnauthorized, "You are not allowed to view this lesson.")
	}

	return lesson, nil
}

// Update редактирует урок, применяя ту же валидацию, что и создание.
// Флаг подтверждения при редактировании не меняется.
func (s *LessonService) Update(ctx context.Context, user *model.User, lessonID int64, payload LessonPayload) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, user, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, NewRouteError(http.StatusNotFound, "Lesson does not exist")
	}

	data, err := s.buildLessonData(ctx, user, payload, lesson)
	if err != nil {
		return nil, err
	}

	oldDate := lesson.Date

	lesson.Date = data.date
	lesson.Duration = data.duration
	lesson.Price = data.price
	lesson.Comments = data.comments
	if data.student != nil {
		lesson.StudentID = &data.student.ID
	}
	lesson.MeetupPlaceID = nil
	if data.meetup != nil {
		lesson.MeetupPlaceID = &data.meetup.ID
	}
	lesson.DropoffPlaceID = nil
	if data.dropoff != nil {
		lesson.DropoffPlaceID = &data.dropoff.ID
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}

	s.cache.InvalidateDay(ctx, lesson.TeacherID, oldDate)
	s.cache.InvalidateDay(ctx, lesson.TeacherID, lesson.Date)

	s.logger.Info("Lesson updated",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("user_id", user.ID),
		zap.Time("date", lesson.Date))

	dateStr := lesson.Date.UTC().Format(model.DateFormat)
	s.notifyCounterparty(ctx, lesson, user, "Lesson Updated",
		fmt.Sprintf("%s wants to edit the lesson at %s. Click here to check it out.", user.Name, dateStr),
		fmt.Sprintf("%s edited the lesson at %s. Click here to check it out.", user.Name, dateStr))

	return lesson, nil
}

// Approve подтверждает урок. Только учитель может подтвердить свой урок,
// и только если на это же время нет другого подтверждённого урока.
func (s *LessonService) Approve(ctx context.Context, user *model.User, lessonID int64) (*model.Lesson, error) {
	if !user.IsTeacher() {
		return nil, NewRouteError(http.StatusUnauthorized, "Not authorized.")
	}

	lesson, err := s.ownedLesson(ctx, user, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, NewRouteError(http.StatusNotFound, "Lesson does not exist")
	}

	// Проверка и запись не атомарны: два одновременных подтверждения
	// одного времени может развести только уникальный индекс в базе
	exists, err := s.lessons.ExistsApprovedAt(ctx, lesson.Date, lesson.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, BadRequest("There is another lesson at the same time.")
	}

	if err := s.lessons.SetApproved(ctx, lesson.ID, true); err != nil {
		return nil, err
	}
	lesson.IsApproved = true

	s.cache.InvalidateDay(ctx, lesson.TeacherID, lesson.Date)

	s.logger.Info("Lesson approved",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", lesson.TeacherID))

	_, studentUser, err := s.lessonParties(ctx, lesson)
	if err == nil && studentUser != nil {
		dateStr := lesson.Date.UTC().Format(model.DateFormat)
		s.dispatch(ctx, studentUser, "Lesson Approved",
			fmt.Sprintf("Lesson at %s has been approved!", dateStr))
	}

	return lesson, nil
}

// Delete мягко удаляет урок: строка остаётся, выставляется флаг deleted
func (s *LessonService) Delete(ctx context.Context, user *model.User, lessonID int64) error {
	lesson, err := s.ownedLesson(ctx, user, lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return BadRequest("Lesson does not exist.")
	}

	if err := s.lessons.SetDeleted(ctx, lesson.ID, true); err != nil {
		return err
	}
	lesson.Deleted = true

	s.cache.InvalidateDay(ctx, lesson.TeacherID, lesson.Date)

	s.logger.Info("Lesson deleted",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("user_id", user.ID))

	dateStr := lesson.Date.UTC().Format(model.DateFormat)
	body := fmt.Sprintf("The lesson at %s has been deleted.", dateStr)
	s.notifyCounterparty(ctx, lesson, user, "Lesson Deleted", body, body)

	return nil
}

// List получает уроки пользователя по фильтрам из query-параметров
func (s *LessonService) List(ctx context.Context, user *model.User, params url.Values, limit, offset int) ([]*model.Lesson, int, error) {
	filter := repository.LessonFilter{Limit: limit, Offset: offset}

	switch {
	case user.IsTeacher():
		filter.TeacherID = &user.Teacher.ID
	case user.IsStudent():
		filter.StudentID = &user.Student.ID
	default:
		return nil, 0, BadRequest("User is not a teacher or a student.")
	}

	if err := applyLessonParams(&filter, params); err != nil {
		return nil, 0, err
	}

	return s.lessons.List(ctx, filter)
}

// ownedLesson находит урок в коллекции пользователя. (nil, nil) - не найден
func (s *LessonService) ownedLesson(ctx context.Context, user *model.User, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, nil
	}

	if user.IsTeacher() && lesson.TeacherID == user.Teacher.ID {
		return lesson, nil
	}
	if user.IsStudent() && lesson.StudentID != nil && *lesson.StudentID == user.Student.ID {
		return lesson, nil
	}

	return nil, nil
}

// lessonParties получает пользователей учителя и ученика урока
func (s *LessonService) lessonParties(ctx context.Context, lesson *model.Lesson) (*model.User, *model.User, error) {
	teacher, err := s.teachers.GetByID(ctx, lesson.TeacherID)
	if err != nil {
		return nil, nil, err
	}

	var teacherUser *model.User
	if teacher != nil {
		teacherUser, err = s.users.GetByID(ctx, teacher.UserID)
		if err != nil {
			return nil, nil, err
		}
	}

	var studentUser *model.User
	if lesson.StudentID != nil {
		student, err := s.students.GetByID(ctx, *lesson.StudentID)
		if err != nil {
			return nil, nil, err
		}
		if student != nil {
			studentUser, err = s.users.GetByID(ctx, student.UserID)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	return teacherUser, studentUser, nil
}

// notifyCounterparty уведомляет сторону урока, не совершавшую действие
func (s *LessonService) notifyCounterparty(ctx context.Context, lesson *model.Lesson, actor *model.User, title, bodyForTeacher, bodyForStudent string) {
	teacherUser, studentUser, err := s.lessonParties(ctx, lesson)
	if err != nil {
		s.logger.Warn("Failed to load lesson parties for notification",
			zap.Int64("lesson_id", lesson.ID),
			zap.Error(err))
		return
	}

	recipient := teacherUser
	body := bodyForTeacher
	if teacherUser != nil && actor.ID == teacherUser.ID && studentUser != nil {
		recipient = studentUser
		body = bodyForStudent
	}

	s.dispatch(ctx, recipient, title, body)
}

// dispatch отправляет уведомление. Ошибка доставки не откатывает операцию
func (s *LessonService) dispatch(ctx context.Context, recipient *model.User, title, body string) {
	if recipient == nil || recipient.FirebaseToken == "" {
		return
	}

	if err := s.notifier.Notify(ctx, recipient.FirebaseToken, title, body); err != nil {
		s.logger.Warn("Failed to send notification",
			zap.Int64("user_id", recipient.ID),
			zap.String("title", title),
			zap.Error(err))
	}
}
