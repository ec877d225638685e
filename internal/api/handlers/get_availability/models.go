package get_availability

import (
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
)

// DayAvailabilityResponse ответ для одного дня
type DayAvailabilityResponse struct {
	Date        string   `json:"date"`
	Slots       []string `json:"slots"`
	SlotMinutes int      `json:"slotMinutes"`
	Fallback    bool     `json:"fallback,omitempty"`
}

// RangeAvailabilityResponse ответ для диапазона дней
type RangeAvailabilityResponse struct {
	Days        map[string][]string `json:"days"`
	SlotMinutes int                 `json:"slotMinutes"`
	Fallback    bool                `json:"fallback,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case
// Либо date, либо пара start/end; пустые значения оставляют поле nil
func ToUseCaseRequest(date, start, end string) (*getAvailability.Request, error) {
	req := &getAvailability.Request{}

	if date != "" {
		d, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, err
		}
		req.Date = &d
		return req, nil
	}

	if start != "" {
		s, err := time.Parse(domain.DateFormat, start)
		if err != nil {
			return nil, err
		}
		req.Start = &s
	}
	if end != "" {
		e, err := time.Parse(domain.DateFormat, end)
		if err != nil {
			return nil, err
		}
		req.End = &e
	}
	return req, nil
}

// FromUseCaseResponse выбирает форму ответа по типу запроса
func FromUseCaseResponse(req *getAvailability.Request, resp *getAvailability.Response) interface{} {
	if !req.IsRange() {
		slots := resp.Slots()
		if slots == nil {
			slots = []string{}
		}
		return &DayAvailabilityResponse{
			Date:        req.Date.Format(domain.DateFormat),
			Slots:       slots,
			SlotMinutes: resp.SlotMinutes,
			Fallback:    resp.Fallback,
		}
	}

	days := make(map[string][]string, len(resp.Days))
	for date, labels := range resp.Days {
		if labels == nil {
			labels = []string{}
		}
		days[date] = labels
	}
	return &RangeAvailabilityResponse{
		Days:        days,
		SlotMinutes: resp.SlotMinutes,
		Fallback:    resp.Fallback,
	}
}
