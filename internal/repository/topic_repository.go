package repository

import (
	"context"
	"fmt"

	"github.com/avtoshkola/driveschool_api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

// Create создаёт новую тему
func (r *TopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	query := `
		INSERT INTO topics (title, min_lesson_number, max_lesson_number)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		topic.Title,
		topic.MinLessonNumber,
		topic.MaxLessonNumber,
	).Scan(&topic.ID, &topic.CreatedAt)

	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}

	return nil
}

// GetByID получает тему по ID
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*model.Topic, error) {
	query := `
		SELECT id, title, min_lesson_number, max_lesson_number, created_at
		FROM topics
		WHERE id = $1
	`

	var topic model.Topic
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&topic.ID,
		&topic.Title,
		&topic.MinLessonNumber,
		&topic.MaxLessonNumber,
		&topic.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get topic by id: %w", err)
	}

	return &topic, nil
}

// GetByIDs получает темы по списку ID
func (r *TopicRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, title, min_lesson_number, max_lesson_number, created_at
		FROM topics
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get topics by ids: %w", err)
	}
	defer rows.Close()

	return r.collectTopics(rows)
}

// ForLessonNumber получает темы, подходящие для урока с данным номером
func (r *TopicRepository) ForLessonNumber(ctx context.Context, lessonNumber int) ([]*model.Topic, error) {
	query := `
		SELECT id, title, min_lesson_number, max_lesson_number, created_at
		FROM topics
		WHERE min_lesson_number <= $1 AND max_lesson_number >= $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, lessonNumber)
	if err != nil {
		return nil, fmt.Errorf("get topics for lesson number: %w", err)
	}
	defer rows.Close()

	return r.collectTopics(rows)
}

// StudentTopicIDs получает ID тем ученика по флагу завершённости
// по всем его неудалённым урокам
func (r *TopicRepository) StudentTopicIDs(ctx context.Context, studentID int64, finished bool) ([]int64, error) {
	query := `
		SELECT DISTINCT lt.topic_id
		FROM lesson_topics lt
		JOIN lessons l ON l.id = lt.lesson_id
		WHERE l.student_id = $1 AND l.deleted = FALSE AND lt.is_finished = $2
		ORDER BY lt.topic_id
	`

	return r.queryIDs(ctx, query, studentID, finished)
}

// LessonTopicIDs получает ID тем конкретного урока по флагу завершённости
func (r *TopicRepository) LessonTopicIDs(ctx context.Context, lessonID int64, finished bool) ([]int64, error) {
	query := `
		SELECT topic_id
		FROM lesson_topics
		WHERE lesson_id = $1 AND is_finished = $2
		ORDER BY id
	`

	return r.queryIDs(ctx, query, lessonID, finished)
}

// AppendLessonTopic добавляет связь урока и темы (append-only)
func (r *TopicRepository) AppendLessonTopic(ctx context.Context, lessonTopic *model.LessonTopic) error {
	query := `
		INSERT INTO lesson_topics (lesson_id, topic_id, is_finished)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		lessonTopic.LessonID,
		lessonTopic.TopicID,
		lessonTopic.IsFinished,
	).Scan(&lessonTopic.ID, &lessonTopic.CreatedAt)

	if err != nil {
		return fmt.Errorf("append lesson topic: %w", err)
	}

	return nil
}

func (r *TopicRepository) queryIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get topic ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan topic id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *TopicRepository) collectTopics(rows pgx.Rows) ([]*model.Topic, error) {
	var topics []*model.Topic
	for rows.Next() {
		var topic model.Topic
		err := rows.Scan(
			&topic.ID,
			&topic.Title,
			&topic.MinLessonNumber,
			&topic.MaxLessonNumber,
			&topic.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, &topic)
	}

	return topics, nil
}
