package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/slots"
)

// requestedDays валидирует запрос и возвращает календарные даты в таймзоне loc
func requestedDays(req *Request, loc *time.Location) ([]time.Time, error) {
	if req == nil {
		return nil, ErrMissingParameters
	}

	if req.Date != nil {
		return slots.DaysInRange(*req.Date, *req.Date, loc), nil
	}

	if req.Start == nil || req.End == nil {
		return nil, ErrMissingParameters
	}

	days := slots.DaysInRange(*req.Start, *req.End, loc)
	if len(days) == 0 {
		return nil, ErrInvalidRange
	}
	if len(days) > domain.MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLarge, len(days), domain.MaxRangeDays)
	}

	return days, nil
}
