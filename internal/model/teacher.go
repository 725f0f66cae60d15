package model

import "time"

type Teacher struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Price          int       `json:"price"`           // цена урока в минимальных единицах
	LessonDuration int       `json:"lesson_duration"` // длительность урока в минутах
	IsApproved     bool      `json:"is_approved"`
	CRN            string    `json:"crn"` // номер лицензии автошколы
	CreatedAt      time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}
