package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/avtoshkola/driveschool_api/internal/repository/cache"
	"go.uber.org/zap"
)

// HoursOptions параметры расчёта свободных часов
type HoursOptions struct {
	Duration       int   // длительность слота в минутах; 0 - длительность урока учителя
	OnlyApproved   bool  // учитывать занятыми только подтверждённые уроки
	ExceptLessonID int64 // исключить урок из проверки занятости (редактирование)
}

// AvailabilityService расчёт свободных часов учителя
type AvailabilityService struct {
	teachers TeacherStore
	lessons  LessonStore
	cache    *cache.AvailabilityCache
	logger   *zap.Logger
}

func NewAvailabilityService(
	teachers TeacherStore,
	lessons LessonStore,
	availabilityCache *cache.AvailabilityCache,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		teachers: teachers,
		lessons:  lessons,
		cache:    availabilityCache,
		logger:   logger,
	}
}

// FreeHours возвращает ленивую последовательность свободных слотов
// (начало, конец) учителя на дату: рабочие окна дня, нарезанные на слоты,
// минус слоты, пересекающиеся с существующими уроками.
func (s *AvailabilityService) FreeHours(ctx context.Context, teacher *model.Teacher, date time.Time, opts HoursOptions) (iter.Seq2[time.Time, time.Time], error) {
	duration := opts.Duration
	if duration <= 0 {
		duration = teacher.LessonDuration
	}

	// Кэшируем только расчёт без параметров: точечные запросы с исключением
	// урока или нестандартной длительностью всегда считаются заново
	cacheable := s.cache != nil &&
		opts.ExceptLessonID == 0 &&
		!opts.OnlyApproved &&
		duration == teacher.LessonDuration

	if cacheable {
		if cached, ok := s.cache.Get(ctx, teacher.ID, date); ok {
			return hoursSeq(cached), nil
		}
	}

	workDays, err := s.teachers.WorkDaysForDate(ctx, teacher.ID, date)
	if err != nil {
		return nil, fmt.Errorf("get work days: %w", err)
	}

	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	taken, err := s.lessons.TakenLessons(ctx, teacher.ID, dayStart, dayEnd, opts.OnlyApproved, opts.ExceptLessonID)
	if err != nil {
		return nil, fmt.Errorf("get taken lessons: %w", err)
	}

	step := time.Duration(duration) * time.Minute

	seq := func(yield func(time.Time, time.Time) bool) {
		for _, workDay := range workDays {
			from, to := workDay.Window(date)
			for slotStart := from; !slotStart.Add(step).After(to); slotStart = slotStart.Add(step) {
				slotEnd := slotStart.Add(step)
				if anyOverlaps(taken, slotStart, slotEnd) {
					continue
				}
				if !yield(slotStart, slotEnd) {
					return
				}
			}
		}
	}

	if cacheable {
		var hours []cache.HourRange
		for slotStart, slotEnd := range seq {
			hours = append(hours, cache.HourRange{Start: slotStart, End: slotEnd})
		}
		s.cache.Set(ctx, teacher.ID, date, hours)
		return hoursSeq(hours), nil
	}

	return seq, nil
}

// IsHourAvailable проверяет начинается ли свободный слот ровно в указанное время
func (s *AvailabilityService) IsHourAvailable(ctx context.Context, teacher *model.Teacher, date time.Time, duration int, exceptLessonID int64) (bool, error) {
	hours, err := s.FreeHours(ctx, teacher, date, HoursOptions{
		Duration:       duration,
		ExceptLessonID: exceptLessonID,
	})
	if err != nil {
		return false, err
	}

	for slotStart := range hours {
		if slotStart.Equal(date) {
			return true, nil
		}
	}

	return false, nil
}

func anyOverlaps(lessons []*model.Lesson, from, to time.Time) bool {
	for _, lesson := range lessons {
		if lesson.Overlaps(from, to) {
			return true
		}
	}
	return false
}

func hoursSeq(hours []cache.HourRange) iter.Seq2[time.Time, time.Time] {
	return func(yield func(time.Time, time.Time) bool) {
		for _, h := range hours {
			if !yield(h.Start, h.End) {
				return
			}
		}
	}
}
