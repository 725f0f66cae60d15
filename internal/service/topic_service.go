package service

import (
	"context"
	"net/http"
	"sort"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"go.uber.org/zap"
)

// TopicProgress темы урока по категориям
type TopicProgress struct {
	Available []*model.Topic `json:"available"`
	Progress  []int64        `json:"progress"`
	Finished  []int64        `json:"finished"`
}

// TopicService прогресс учебной программы по урокам
type TopicService struct {
	lessons  LessonStore
	students StudentStore
	topics   TopicStore
	logger   *zap.Logger
}

func NewTopicService(lessons LessonStore, students StudentStore, topics TopicStore, logger *zap.Logger) *TopicService {
	return &TopicService{
		lessons:  lessons,
		students: students,
		topics:   topics,
		logger:   logger,
	}
}

// LessonTopics вычисляет темы урока:
//   - available: темы, подходящие по номеру урока, плюс темы ученика в работе,
//     минус темы, завершённые учеником в других уроках; темы, завершённые
//     именно в этом уроке, остаются видимыми
//   - progress/finished: ID тем этого урока по флагу завершённости
//
// lessonID == 0 со studentID - урок ещё не создан, берём следующий номер урока
func (s *TopicService) LessonTopics(ctx context.Context, lessonID, studentID int64) (*TopicProgress, error) {
	var lesson *model.Lesson
	var student *model.Student
	var lessonNumber int

	if lessonID == 0 && studentID != 0 {
		found, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		student = found
	}

	if student != nil {
		approved, err := s.students.ApprovedLessonCount(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		lessonNumber = approved + 1
	} else {
		found, err := s.lessons.GetByID(ctx, lessonID)
		if err != nil {
			return nil, err
		}
		if found == nil || found.StudentID == nil {
			return nil, NewRouteError(http.StatusNotFound, "Lesson does not exist or not assigned.")
		}
		lesson = found

		student, err = s.students.GetByID(ctx, *lesson.StudentID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, NewRouteError(http.StatusNotFound, "Lesson does not exist or not assigned.")
		}

		before, err := s.lessons.CountApprovedBefore(ctx, student.ID, lesson.Date)
		if err != nil {
			return nil, err
		}
		lessonNumber = before + 1
	}

	inProgressIDs, err := s.topics.StudentTopicIDs(ctx, student.ID, false)
	if err != nil {
		return nil, err
	}
	finishedIDs, err := s.topics.StudentTopicIDs(ctx, student.ID, true)
	if err != nil {
		return nil, err
	}
	forNumber, err := s.topics.ForLessonNumber(ctx, lessonNumber)
	if err != nil {
		return nil, err
	}

	available := make(map[int64]bool)
	for _, id := range inProgressIDs {
		available[id] = true
	}
	for _, topic := range forNumber {
		available[topic.ID] = true
	}
	for _, id := range finishedIDs {
		delete(available, id)
	}

	progress := []int64{}
	finishedHere := []int64{}
	if lesson != nil {
		progress, err = s.topics.LessonTopicIDs(ctx, lesson.ID, false)
		if err != nil {
			return nil, err
		}
		finishedHere, err = s.topics.LessonTopicIDs(ctx, lesson.ID, true)
		if err != nil {
			return nil, err
		}
		// Завершённые в этом уроке темы возвращаем в доступные,
		// иначе собственные отметки урока пропадут из списка
		for _, id := range finishedHere {
			available[id] = true
		}
	}

	ids := make([]int64, 0, len(available))
	for id := range available {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	topics, err := s.topics.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []*model.Topic{}
	}

	return &TopicProgress{
		Available: topics,
		Progress:  progress,
		Finished:  finishedHere,
	}, nil
}

// SubmitTopics записывает темы урока из корзин "progress"/"finished".
// Повторы внутри одного запроса пропускаются, записи только добавляются.
func (s *TopicService) SubmitTopics(ctx context.Context, lessonID int64, buckets map[string][]int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, BadRequest("Lesson does not exist.")
	}
	if lesson.StudentID == nil {
		return nil, BadRequest("Lesson must have a student assigned.")
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	appended := make(map[int64]bool)
	for _, key := range keys {
		isFinished := key == "finished"
		for _, topicID := range buckets[key] {
			topic, err := s.topics.GetByID(ctx, topicID)
			if err != nil {
				return nil, err
			}
			if topic == nil {
				return nil, BadRequest("Topic does not exist.")
			}
			if appended[topicID] {
				continue
			}

			lessonTopic := &model.LessonTopic{
				LessonID:   lesson.ID,
				TopicID:    topicID,
				IsFinished: isFinished,
			}
			if err := s.topics.AppendLessonTopic(ctx, lessonTopic); err != nil {
				return nil, err
			}
			appended[topicID] = true
		}
	}

	s.logger.Info("Lesson topics submitted",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int("count", len(appended)))

	return lesson, nil
}
