package zohocalendar

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

const (
	freeBusyLayout = "20060102T150405"
	eventLayout    = "20060102T150405Z"

	tokenCacheKey      = "zoho:access_token"
	defaultTokenTTL    = 3600 * time.Second
	tokenExpiryReserve = 60 * time.Second
)

// Settings параметры подключения к календарю
type Settings struct {
	AccountsURL  string
	CalendarURL  string
	CalendarID   string
	FreeBusyUser string

	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURI  string

	Location *time.Location
	Timeout  time.Duration
}

// IsConfigured сообщает, хватает ли параметров для обращения к календарю
func (s Settings) IsConfigured() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.RefreshToken != "" && s.FreeBusyUser != ""
}

// EventInput данные события в календаре
type EventInput struct {
	Start       time.Time
	Duration    time.Duration
	Title       string
	Description string
	Location    string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type eventData struct {
	Title       string      `json:"title"`
	DateAndTime eventWindow `json:"dateandtime"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
}

type eventWindow struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

type createdEvent struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
	UID     string `json:"uid"`
}

func (e createdEvent) identifier() string {
	switch {
	case e.ID != "":
		return e.ID
	case e.EventID != "":
		return e.EventID
	default:
		return e.UID
	}
}

type createEventResponse struct {
	Events []createdEvent `json:"events"`
	createdEvent
}

// decodeDayEntry разбирает запись одного дня из free/busy ответа
//
// Поддерживаются две формы:
//   - массив: [ {"allday": true}, ["10:00-10:30", ...] ]
//   - объект: {"allday"|"allDay": true, "busy": ["10:00-10:30", ...]}
//
// Нестроковые элементы диапазонов сохраняются как JSON-текст, нормализатор посчитает их некорректными.
func decodeDayEntry(raw json.RawMessage) (*domain.DayBusy, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		day := &domain.DayBusy{}
		if len(items) > 0 {
			var flags map[string]interface{}
			if err := json.Unmarshal(items[0], &flags); err == nil {
				day.AllDay = truthy(flags["allday"]) || truthy(flags["allDay"])
			}
		}
		if len(items) > 1 {
			day.Ranges = decodeRanges(items[1])
		}
		return day, true

	case '{':
		var obj struct {
			AllDayLower interface{}     `json:"allday"`
			AllDayCamel interface{}     `json:"allDay"`
			Busy        json.RawMessage `json:"busy"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		day := &domain.DayBusy{AllDay: truthy(obj.AllDayLower) || truthy(obj.AllDayCamel)}
		if !day.AllDay && len(obj.Busy) > 0 {
			day.Ranges = decodeRanges(obj.Busy)
		}
		return day, true
	}

	return nil, false
}

func decodeRanges(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	ranges := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			ranges = append(ranges, string(item))
			continue
		}
		ranges = append(ranges, s)
	}
	return ranges
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}

// MaskEmail скрывает адрес для логов: первые 3 символа локальной части и домен
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "not-configured"
	}
	local := email[:at]
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***@" + email[at+1:]
}
