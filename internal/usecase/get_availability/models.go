package get_availability

import "time"

// Request модель запроса доступности
// Заполняется либо Date (один день), либо Start и End (диапазон, включительно)
type Request struct {
	Date  *time.Time
	Start *time.Time
	End   *time.Time
}

// IsRange сообщает, запрошен ли диапазон дней
func (r *Request) IsRange() bool {
	return r.Date == nil
}

// Response модель ответа со свободными слотами
type Response struct {
	Dates       []string            // Даты в порядке возрастания (YYYY-MM-DD)
	Days        map[string][]string // Дата -> свободные метки HH:MM
	SlotMinutes int
	Fallback    bool // true, если календарь был недоступен и доступность построена только по внутренним бронированиям
}

// Slots возвращает свободные метки первой даты ответа (для запроса на один день)
func (r *Response) Slots() []string {
	if len(r.Dates) == 0 {
		return []string{}
	}
	return r.Days[r.Dates[0]]
}
