package model

import "time"

// Day день недели в конфигурации рабочих часов (0 = понедельник)
type Day int

const (
	DayMonday Day = iota
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
	DaySunday
)

// DayFromWeekday переводит time.Weekday (воскресенье = 0) в наш Day
func DayFromWeekday(wd time.Weekday) Day {
	return Day((int(wd) + 6) % 7)
}

type WorkDay struct {
	ID          int64      `json:"id"`
	TeacherID   int64      `json:"teacher_id"`
	Day         Day        `json:"day"`
	FromHour    int        `json:"from_hour"`
	FromMinutes int        `json:"from_minutes"`
	ToHour      int        `json:"to_hour"`
	ToMinutes   int        `json:"to_minutes"`
	OnSpecificDate *time.Time `json:"on_specific_date"` // разовый рабочий день, перекрывает день недели
	CarID          *int64     `json:"car_id"`
}

// Window возвращает границы рабочего окна для конкретной даты
func (wd *WorkDay) Window(date time.Time) (time.Time, time.Time) {
	year, month, day := date.Date()
	from := time.Date(year, month, day, wd.FromHour, wd.FromMinutes, 0, 0, date.Location())
	to := time.Date(year, month, day, wd.ToHour, wd.ToMinutes, 0, 0, date.Location())
	return from, to
}
