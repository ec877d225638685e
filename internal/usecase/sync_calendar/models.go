package sync_calendar

// Response итог синхронизации
type Response struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"` // сессия уже прошла
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
