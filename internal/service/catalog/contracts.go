package catalog

// CheckoutClient интерфейс клиента оплаты
type CheckoutClient interface {
	IsConfigured() bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
