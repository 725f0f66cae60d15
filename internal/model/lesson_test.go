package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonOverlaps(t *testing.T) {
	start := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	lesson := &Lesson{Date: start, Duration: 60}

	assert.True(t, lesson.Overlaps(start, start.Add(time.Hour)))
	assert.True(t, lesson.Overlaps(start.Add(-30*time.Minute), start.Add(30*time.Minute)))
	assert.True(t, lesson.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))

	// Интервалы [from, to) встык не пересекаются
	assert.False(t, lesson.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, lesson.Overlaps(start.Add(-time.Hour), start))
}

func TestLessonMarshalsDateFormat(t *testing.T) {
	lesson := &Lesson{
		ID:       1,
		Date:     time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC),
		Duration: 60,
	}

	raw, err := json.Marshal(lesson)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2030-01-07T09:00:00Z", decoded["date"])
}

func TestDayFromWeekday(t *testing.T) {
	assert.Equal(t, DayMonday, DayFromWeekday(time.Monday))
	assert.Equal(t, DaySunday, DayFromWeekday(time.Sunday))
	assert.Equal(t, DaySaturday, DayFromWeekday(time.Saturday))
}

func TestWorkDayWindow(t *testing.T) {
	wd := &WorkDay{FromHour: 8, FromMinutes: 30, ToHour: 12}
	date := time.Date(2030, 1, 7, 15, 45, 0, 0, time.UTC)

	from, to := wd.Window(date)

	assert.Equal(t, time.Date(2030, 1, 7, 8, 30, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC), to)
}

func TestTopicAppliesTo(t *testing.T) {
	topic := &Topic{MinLessonNumber: 2, MaxLessonNumber: 4}

	assert.False(t, topic.AppliesTo(1))
	assert.True(t, topic.AppliesTo(2))
	assert.True(t, topic.AppliesTo(4))
	assert.False(t, topic.AppliesTo(5))
}
