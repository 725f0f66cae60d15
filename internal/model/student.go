package model

import "time"

type Student struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	TeacherID  int64     `json:"teacher_id"`
	IsApproved bool      `json:"is_approved"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	User    *User    `json:"user,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}
