package confirm_payment

// Результаты обработки события для логов и метрик
const (
	ResultConfirmed        = "confirmed"
	ResultFailed           = "failed"
	ResultExpired          = "expired"
	ResultAlreadyProcessed = "already_processed"
	ResultNotFound         = "not_found"
	ResultIgnored          = "ignored"
	ResultError            = "error"
)

// Request модель запроса: сырое тело вебхука и заголовок подписи
type Request struct {
	Payload   []byte
	Signature string
}

// Response модель ответа
type Response struct {
	EventID   string
	EventType string
	Result    string
	BookingID int64
}
