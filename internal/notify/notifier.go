package notify

import "context"

// Notifier отправляет push-уведомление пользователю по его токену
type Notifier interface {
	Notify(ctx context.Context, token, title, body string) error
}

// Noop заглушка для окружений без настроенных уведомлений
type Noop struct{}

func (Noop) Notify(ctx context.Context, token, title, body string) error {
	return nil
}
