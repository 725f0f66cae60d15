package model

import "time"

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	Name          string    `json:"name"`
	Area          string    `json:"area"`
	AuthToken     string    `json:"-"`
	FirebaseToken string    `json:"-"` // токен для push-уведомлений
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`

	// Роли пользователя (подгружаются отдельно, не из таблицы users)
	Teacher *Teacher `json:"teacher,omitempty"`
	Student *Student `json:"student,omitempty"`
}

// IsTeacher проверяет есть ли у пользователя роль учителя
func (u *User) IsTeacher() bool {
	return u.Teacher != nil
}

// IsStudent проверяет есть ли у пользователя роль ученика
func (u *User) IsStudent() bool {
	return u.Student != nil
}
