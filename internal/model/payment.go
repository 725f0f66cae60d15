package model

import "time"

type Payment struct {
	ID        int64     `json:"id"`
	TeacherID int64     `json:"teacher_id"`
	StudentID int64     `json:"student_id"`
	Amount    int       `json:"amount"` // в минимальных единицах
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`

	Student *Student `json:"student,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}
