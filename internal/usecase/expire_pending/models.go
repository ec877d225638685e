package expire_pending

// Response итог одного прохода очистки
type Response struct {
	Found   int // pending-бронирования старше TTL
	Expired int // переведены в failed
	Skipped int // checkout-сессию не удалось закрыть; оставлены до вебхука или следующего прохода
}
