package model

import "time"

// Topic тема учебной программы, привязанная к диапазону номеров уроков
type Topic struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	MinLessonNumber int       `json:"min_lesson_number"`
	MaxLessonNumber int       `json:"max_lesson_number"`
	CreatedAt       time.Time `json:"created_at"`
}

// AppliesTo проверяет подходит ли тема для урока с данным номером
func (t *Topic) AppliesTo(lessonNumber int) bool {
	return t.MinLessonNumber <= lessonNumber && lessonNumber <= t.MaxLessonNumber
}

// LessonTopic связь урока и темы с флагом завершённости
type LessonTopic struct {
	ID         int64     `json:"id"`
	LessonID   int64     `json:"lesson_id"`
	TopicID    int64     `json:"topic_id"`
	IsFinished bool      `json:"is_finished"`
	CreatedAt  time.Time `json:"created_at"`
}
