package service

import "net/http"

// RouteError ошибка валидации, возвращаемая пользователю API как есть
type RouteError struct {
	Message string
	Status  int
}

func (e *RouteError) Error() string {
	return e.Message
}

// NewRouteError создаёт пользовательскую ошибку с HTTP-статусом
func NewRouteError(status int, message string) *RouteError {
	return &RouteError{Message: message, Status: status}
}

// BadRequest создаёт пользовательскую ошибку со статусом 400
func BadRequest(message string) *RouteError {
	return NewRouteError(http.StatusBadRequest, message)
}
