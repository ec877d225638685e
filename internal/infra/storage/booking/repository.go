package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

const (
	table = "bookings"

	// pqUniqueViolation код ошибки PostgreSQL unique_violation
	pqUniqueViolation = "23505"
	// activeSlotIndex частичный уникальный индекс активных бронирований на слот
	activeSlotIndex = "bookings_active_slot_uidx"
)

var bookingColumns = []string{
	"id",
	"reference",
	"client_name",
	"client_email",
	"client_phone",
	"event_type",
	"event_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"location",
	"status",
	"notes",
	"package_id",
	"package_name",
	"package_amount",
	"package_currency",
	"deposit_paid",
	"calendar_event_id",
	"checkout_session_id",
	"checkout_url",
	"payment_intent_id",
	"paid_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если слот уже удерживается активным бронированием (pending/confirmed), возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"reference",
			"client_name",
			"client_email",
			"client_phone",
			"event_type",
			"event_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"location",
			"status",
			"notes",
			"package_id",
			"package_name",
			"package_amount",
			"package_currency",
			"deposit_paid",
			"calendar_event_id",
		).
		Values(
			booking.Reference,
			booking.ClientName,
			booking.ClientEmail,
			booking.ClientPhone,
			booking.EventType,
			booking.EventDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.Location,
			booking.Status,
			booking.Notes,
			booking.PackageID,
			booking.PackageName,
			booking.PackageAmount,
			booking.PackageCurrency,
			booking.DepositPaid,
			booking.CalendarEventID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if isSlotTaken(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByReference получает бронирование по идемпотентному ключу попытки
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByReference", squirrel.Eq{"reference": reference})
}

// GetByCheckoutSession получает бронирование по ID checkout-сессии
func (r *Repository) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByCheckoutSession", squirrel.Eq{"checkout_session_id": sessionID})
}

// GetByPaymentIntent получает бронирование по ID платежа
func (r *Repository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByPaymentIntent", squirrel.Eq{"payment_intent_id": paymentIntentID})
}

// GetLatestByEmail получает самое свежее бронирование клиента (email без учета регистра)
func (r *Repository) GetLatestByEmail(ctx context.Context, email string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(table).
		Where(squirrel.Expr("LOWER(client_email) = ?", strings.ToLower(strings.TrimSpace(email)))).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByEmail - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestByEmail - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// FindOccupiedSlots возвращает пары (дата, время начала) бронирований в статусах statuses за [from, to]
func (r *Repository) FindOccupiedSlots(ctx context.Context, from, to time.Time, statuses []domain.BookingStatus) ([]domain.OccupiedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("event_date", "start_time").
		From(table).
		Where(squirrel.GtOrEq{"event_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"event_date": to.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		OrderBy("event_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.OccupiedSlot, 0)
	for rows.Next() {
		var date time.Time
		var start types.TimeString
		if err := rows.Scan(&date, &start); err != nil {
			return nil, fmt.Errorf("%w: FindOccupiedSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, domain.OccupiedSlot{Date: date, Label: start})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// AttachCheckoutSession связывает бронирование с checkout-сессией
func (r *Repository) AttachCheckoutSession(ctx context.Context, id int64, sessionID, url string) error {
	return r.update(ctx, "AttachCheckoutSession", id, psqlbuilder.Update(table).
		Set("checkout_session_id", sessionID).
		Set("checkout_url", url))
}

// MarkConfirmed переводит бронирование в confirmed после успешной оплаты
func (r *Repository) MarkConfirmed(ctx context.Context, id int64, paymentIntentID string, paidAt time.Time, note string) error {
	builder := psqlbuilder.Update(table).
		Set("status", domain.StatusConfirmed).
		Set("deposit_paid", true).
		Set("paid_at", paidAt).
		Set("notes", appendNote(note))
	if paymentIntentID != "" {
		builder = builder.Set("payment_intent_id", paymentIntentID)
	}
	return r.update(ctx, "MarkConfirmed", id, builder)
}

// MarkFailed переводит бронирование в failed с причиной в заметках
func (r *Repository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, "MarkFailed", id, psqlbuilder.Update(table).
		Set("status", domain.StatusFailed).
		Set("notes", appendNote(reason)))
}

// UpdateStatus обновляет статус бронирования, дописывая note в заметки (если не пусто)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, note string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	builder := psqlbuilder.Update(table).Set("status", status)
	if note != "" {
		builder = builder.Set("notes", appendNote(note))
	}
	return r.update(ctx, "UpdateStatus", id, builder)
}

// SetCalendarEventID сохраняет ID события календаря
func (r *Repository) SetCalendarEventID(ctx context.Context, id int64, eventID string) error {
	return r.update(ctx, "SetCalendarEventID", id, psqlbuilder.Update(table).
		Set("calendar_event_id", eventID))
}

// ListWithoutCalendarEvent получает бронирования в статусах statuses, у которых нет события в календаре
func (r *Repository) ListWithoutCalendarEvent(ctx context.Context, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(table).
		Where(squirrel.Eq{"status": statusStrings(statuses)}).
		Where(squirrel.Or{
			squirrel.Eq{"calendar_event_id": nil},
			squirrel.Eq{"calendar_event_id": ""},
		}).
		OrderBy("event_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWithoutCalendarEvent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithoutCalendarEvent - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListExpiredPending получает неоплаченные pending-бронирования, созданные раньше createdBefore
func (r *Repository) ListExpiredPending(ctx context.Context, createdBefore time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(table).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		Where(squirrel.Eq{"paid_at": nil}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Delete удаляет бронирование (используется только для отката незавершенного резервирования)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(table).
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

func (r *Repository) update(ctx context.Context, op string, id int64, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isSlotTaken(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ClientName,
		&booking.ClientEmail,
		&booking.ClientPhone,
		&booking.EventType,
		&booking.EventDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.Location,
		&booking.Status,
		&booking.Notes,
		&booking.PackageID,
		&booking.PackageName,
		&booking.PackageAmount,
		&booking.PackageCurrency,
		&booking.DepositPaid,
		&booking.CalendarEventID,
		&booking.CheckoutSessionID,
		&booking.CheckoutURL,
		&booking.PaymentIntentID,
		&booking.PaidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// appendNote дописывает строку к заметкам бронирования
func appendNote(note string) squirrel.Sqlizer {
	return squirrel.Expr("CONCAT_WS(E'\\n', NULLIF(notes, ''), ?::text)", note)
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isSlotTaken(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pqUniqueViolation && (pqErr.Constraint == "" || pqErr.Constraint == activeSlotIndex)
}
