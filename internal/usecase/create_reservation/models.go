package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

// Метки исхода резервирования для метрик
const (
	OutcomeCreated  = "created"
	OutcomeReplayed = "replayed"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

// Request модель запроса на резервирование слота
type Request struct {
	Date      time.Time        // Дата сессии (календарная дата в таймзоне рабочих часов)
	StartTime types.TimeString // Метка слота, например "10:05"
	PackageID string
	Location  string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	IdempotencyKey string // Опционально; переводится в uuid-ссылку, при пустом значении ссылка генерируется
}

// Response модель ответа с данными checkout
type Response struct {
	BookingID   int64
	Reference   string
	DisplayID   string
	SessionID   string
	RedirectURL string
	Replayed    bool // true, если ответ повторен для ранее выполненного запроса с тем же ключом
}

// stage этап резервирования; используется в логах и для выбора шагов компенсации
type stage string

const (
	stageStart           stage = "START"
	stageSlotRevalidated stage = "SLOT_REVALIDATED"
	stageEventCreated    stage = "EXTERNAL_EVENT_CREATED"
	stageRecordCreated   stage = "INTERNAL_RECORD_CREATED"
	stageSessionLinked   stage = "CHECKOUT_SESSION_LINKED"
	stageRolledBack      stage = "ROLLED_BACK"
)

// reservation ресурсы, созданные в ходе одной попытки
type reservation struct {
	reference string
	stage     stage
	eventID   string
	bookingID int64
	sessionID string
}
