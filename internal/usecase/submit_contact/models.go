package submit_contact

// Request модель запроса: поля контактной формы и данные клиента HTTP
type Request struct {
	Name    string
	Email   string
	Phone   string
	Subject string // пустая тема заменяется на domain.DefaultMessageSubject
	Message string

	IPAddress string
	UserAgent string
}

// Response модель ответа
type Response struct {
	MessageID int64
	DisplayID string
	EmailSent bool
}
