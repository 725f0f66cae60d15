package model

import (
	"encoding/json"
	"time"
)

// DateFormat формат даты и времени во всех запросах и ответах API
const DateFormat = "2006-01-02T15:04:05Z"

type Lesson struct {
	ID             int64     `json:"id"`
	TeacherID      int64     `json:"teacher_id"`
	StudentID      *int64    `json:"student_id"`
	Date           time.Time `json:"-"`
	Duration       int       `json:"duration"` // в минутах
	MeetupPlaceID  *int64    `json:"-"`
	DropoffPlaceID *int64    `json:"-"`
	Price          *int      `json:"price"`
	Comments       string    `json:"comments"`
	IsApproved     bool      `json:"is_approved"`
	Deleted        bool      `json:"deleted"`
	CreatorID      int64     `json:"creator_id"` // пользователь, создавший урок
	CreatedAt      time.Time `json:"created_at"`

	// Связанные сущности (подгружаются отдельно)
	Student      *Student `json:"student,omitempty"`
	Teacher      *Teacher `json:"teacher,omitempty"`
	MeetupPlace  *Place   `json:"meetup_place,omitempty"`
	DropoffPlace *Place   `json:"dropoff_place,omitempty"`
}

// MarshalJSON сериализует урок с датой в формате DateFormat
func (l *Lesson) MarshalJSON() ([]byte, error) {
	type alias Lesson
	return json.Marshal(struct {
		*alias
		Date string `json:"date"`
	}{(*alias)(l), l.Date.UTC().Format(DateFormat)})
}

// End возвращает время окончания урока
func (l *Lesson) End() time.Time {
	return l.Date.Add(time.Duration(l.Duration) * time.Minute)
}

// Overlaps проверяет пересекается ли урок с интервалом [from, to)
func (l *Lesson) Overlaps(from, to time.Time) bool {
	return l.Date.Before(to) && from.Before(l.End())
}
