package model

import "time"

type PlaceType string

const (
	PlaceTypeMeetup  PlaceType = "meetup"  // место встречи
	PlaceTypeDropoff PlaceType = "dropoff" // место высадки
)

type Place struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	Name      string    `json:"name"`
	UsedAs    PlaceType `json:"used_as"`
	TimesUsed int       `json:"times_used"`
	CreatedAt time.Time `json:"created_at"`
}
