package zohocalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// Client клиент календаря Zoho: free/busy, создание и удаление событий
type Client struct {
	settings   Settings
	httpClient *http.Client
	tokens     *tokenSource
	log        Logger
}

// NewClient создает новый экземпляр клиента календаря
// cache хранит access token между вызовами; clock == nil означает реальное время
func NewClient(settings Settings, cache TokenCache, clock Clock, log Logger) *Client {
	if clock == nil {
		clock = realClock{}
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	httpClient := &http.Client{
		Timeout: settings.Timeout,
	}
	return &Client{
		settings:   settings,
		httpClient: httpClient,
		tokens:     newTokenSource(settings, httpClient, cache, clock, log),
		log:        log,
	}
}

// IsConfigured сообщает, хватает ли параметров для обращения к календарю
func (c *Client) IsConfigured() bool {
	return c.settings.IsConfigured()
}

// FetchFreeBusy получает занятость пользователя за [from, to]
// Результат индексирован ключом дня yyyyMMdd; дни без записи отсутствуют в карте.
func (c *Client) FetchFreeBusy(ctx context.Context, from, to time.Time) (map[string]*domain.DayBusy, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	loc := c.settings.Location
	query := url.Values{}
	query.Set("uemail", c.settings.FreeBusyUser)
	query.Set("sdate", from.In(loc).Format(freeBusyLayout))
	query.Set("edate", to.In(loc).Format(freeBusyLayout))
	query.Set("ftype", "timebased")

	endpoint := c.calendarURL("/api/v1/calendars/freebusy") + "?" + query.Encode()

	resp, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: free/busy returned %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode free/busy response: %v", ErrInvalidResponse, err)
	}

	return c.extractUserBusy(payload)
}

// FetchFreeBusyWithGracefulDegradation получает занятость с graceful degradation
// При любой ошибке календаря возвращает ErrServiceDegraded, чтобы вызывающий построил fallback
func (c *Client) FetchFreeBusyWithGracefulDegradation(ctx context.Context, from, to time.Time) (map[string]*domain.DayBusy, error) {
	c.log.Info("ZohoCalendar: fetching free/busy for %s from %s to %s",
		MaskEmail(c.settings.FreeBusyUser), from.Format(time.RFC3339), to.Format(time.RFC3339))

	busy, err := c.FetchFreeBusy(ctx, from, to)
	if err != nil {
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("ZohoCalendar unavailable, applying graceful degradation: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}

	c.log.Info("ZohoCalendar: free/busy data contains %d day(s)", len(busy))
	return busy, nil
}

// CreateEvent создает событие и возвращает его идентификатор
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if input.Start.IsZero() || input.Duration <= 0 {
		return "", fmt.Errorf("%w: invalid event window", ErrInternal)
	}

	// Zoho принимает время события в UTC с суффиксом Z, зона передается отдельным полем
	start := input.Start.UTC()
	data := eventData{
		Title: input.Title,
		DateAndTime: eventWindow{
			Start:    start.Format(eventLayout),
			End:      start.Add(input.Duration).Format(eventLayout),
			Timezone: c.settings.Location.String(),
		},
		Description: input.Description,
		Location:    input.Location,
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	endpoint := c.calendarURL("/api/v1/calendars/"+c.settings.CalendarID+"/events") +
		"?" + url.Values{"eventdata": []string{string(encoded)}}.Encode()

	resp, err := c.do(ctx, http.MethodPost, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: create event returned %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var created createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode event response: %v", ErrInvalidResponse, err)
	}

	id := created.identifier()
	if len(created.Events) > 0 {
		id = created.Events[0].identifier()
	}
	if id == "" {
		return "", fmt.Errorf("%w: event response has no id", ErrInvalidResponse)
	}

	c.log.Info("ZohoCalendar: event created id=%s", id)
	return id, nil
}

// DeleteEvent удаляет событие; отсутствующее событие считается удаленным
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	endpoint := c.calendarURL("/api/v1/calendars/" + url.PathEscape(c.settings.CalendarID) + "/events/" + url.PathEscape(eventID))

	resp, err := c.do(ctx, http.MethodDelete, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		c.log.Info("ZohoCalendar: event deleted id=%s", eventID)
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: delete event returned %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

// do выполняет авторизованный запрос; при 401 обновляет токен и повторяет запрос один раз
func (c *Client) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
		}
		req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.tokens.Invalidate(ctx)
			continue
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: calendar rejected access token", ErrUnauthorized)
		}
		return resp, nil
	}
}

func (c *Client) calendarURL(path string) string {
	return strings.TrimRight(c.settings.CalendarURL, "/") + path
}

// extractUserBusy достает из ответа записи пользователя free/busy: payload.freebusy[user] или payload[user]
func (c *Client) extractUserBusy(payload map[string]json.RawMessage) (map[string]*domain.DayBusy, error) {
	users := payload
	if nested, ok := payload["freebusy"]; ok {
		users = map[string]json.RawMessage{}
		if err := json.Unmarshal(nested, &users); err != nil {
			return nil, fmt.Errorf("%w: freebusy field is not an object: %v", ErrInvalidResponse, err)
		}
	}

	result := make(map[string]*domain.DayBusy)

	raw, ok := users[c.settings.FreeBusyUser]
	if !ok {
		return result, nil
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("%w: user free/busy is not an object: %v", ErrInvalidResponse, err)
	}

	for key, entry := range days {
		day, ok := decodeDayEntry(entry)
		if !ok {
			c.log.Warn("ZohoCalendar: skipping malformed free/busy entry for day %s", key)
			continue
		}
		if day != nil {
			result[key] = day
		}
	}

	return result, nil
}
