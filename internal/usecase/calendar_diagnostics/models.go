package calendar_diagnostics

// Settings параметры календаря, о которых сообщает отчет
// Секреты в отчет не попадают, только признак наличия.
type Settings struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURI  string
	AccountsURL  string
	CalendarURL  string
	CalendarID   string
	FreeBusyUser string
	Timezone     string
	StartHour    int
	EndHour      int
	SlotMinutes  int
}

// Report отчет диагностики календаря
type Report struct {
	Config ConfigReport `json:"config"`
	Today  TodayReport  `json:"today"`
}

// ConfigReport признаки наличия настроек
type ConfigReport struct {
	HasClientID     bool   `json:"hasClientId"`
	HasClientSecret bool   `json:"hasClientSecret"`
	HasRefreshToken bool   `json:"hasRefreshToken"`
	HasRedirectURI  bool   `json:"hasRedirectUri"`
	AccountsURL     string `json:"accountsBaseUrl"`
	CalendarURL     string `json:"calendarBaseUrl"`
	CalendarID      string `json:"calendarId"`
	FreeBusyUser    string `json:"freeBusyUser"`
	Timezone        string `json:"timezone"`
	StartHour       int    `json:"startHour"`
	EndHour         int    `json:"endHour"`
	SlotMinutes     int    `json:"slotMinutes"`
}

// TodayReport результат проверки доступности на сегодня
type TodayReport struct {
	Date        string   `json:"date"`
	SlotCount   int      `json:"slotCount"`
	SampleSlots []string `json:"sampleSlots"`
	Fallback    bool     `json:"fallback"`
	Error       string   `json:"error,omitempty"`
}
