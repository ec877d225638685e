package stripecheckout

import "time"

// Типы событий вебхука, которые обрабатывает сервис
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventChargeFailed      = "charge.failed"
)

// Settings параметры подключения к платежному провайдеру
type Settings struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// CheckoutInput данные для создания checkout-сессии
type CheckoutInput struct {
	// Reference идентификатор попытки бронирования; используется как client_reference_id и ключ идемпотентности
	Reference     string
	PriceID       string
	CustomerEmail string
	Metadata      map[string]string
}

// Session созданная checkout-сессия
type Session struct {
	ID  string
	URL string
}

// Event проверенное событие вебхука в нейтральном виде
type Event struct {
	ID                string
	Type              string
	SessionID         string
	ClientReferenceID string
	PaymentIntentID   string
	FailureMessage    string
	Metadata          map[string]string
	Created           time.Time
}
