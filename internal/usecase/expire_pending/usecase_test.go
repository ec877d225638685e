package expire_pending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	cutoff   time.Time
	listErr  error
	markErr  error
	failed   []int64
	// changed подменяет статус при перечитывании, имитируя параллельный вебхук
	changed map[int64]domain.BookingStatus
	reads   []int64
}

func (r *fakeBookingRepo) ListExpiredPending(_ context.Context, createdBefore time.Time) ([]*domain.Booking, error) {
	r.cutoff = createdBefore
	if r.listErr != nil {
		return nil, r.listErr
	}
	var stale []*domain.Booking
	for _, b := range r.bookings {
		if b.Status == domain.StatusPending && b.PaidAt == nil && b.CreatedAt.Before(createdBefore) {
			stale = append(stale, b)
		}
	}
	return stale, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.reads = append(r.reads, id)
	for _, b := range r.bookings {
		if b.ID != id {
			continue
		}
		current := *b
		if status, ok := r.changed[id]; ok {
			current.Status = status
			current.PaidAt = ptr.Ptr(now)
		}
		return &current, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) MarkFailed(_ context.Context, id int64, _ string) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.failed = append(r.failed, id)
	return nil
}

type fakeCheckout struct {
	expired []string
	failFor map[string]bool
	tx      *recordingTx
	inTx    int
}

func (c *fakeCheckout) ExpireCheckoutSession(_ context.Context, sessionID string) error {
	if c.tx != nil && c.tx.active {
		c.inTx++
	}
	if c.failFor[sessionID] {
		return errors.New("session is already complete")
	}
	c.expired = append(c.expired, sessionID)
	return nil
}

type fakeCalendar struct {
	deleted []string
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingTx struct {
	active bool
	calls  int
}

func (r *recordingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	r.active = true
	r.calls++
	defer func() { r.active = false }()
	return fn(ctx)
}

type fakeMetrics struct {
	expired int
}

func (m *fakeMetrics) PendingExpired(count int) {
	m.expired += count
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var now = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(repo *fakeBookingRepo, checkout *fakeCheckout, calendar *fakeCalendar, m *fakeMetrics) *UseCase {
	uc := NewUseCase(repo, checkout, calendar, passthroughTx{}, time.Hour, m, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_ExpiresStalePendingBookings(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CheckoutSessionID: ptr.Ptr("cs_1"), CalendarEventID: ptr.Ptr("evt-1")},
		{ID: 2, Status: domain.StatusPending, CreatedAt: now.Add(-10 * time.Minute), CheckoutSessionID: ptr.Ptr("cs_2")},
		{ID: 3, Status: domain.StatusConfirmed, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: 4, Status: domain.StatusPending, CreatedAt: now.Add(-90 * time.Minute)},
	}}
	checkout := &fakeCheckout{}
	calendar := &fakeCalendar{}
	m := &fakeMetrics{}

	resp, err := newUseCase(repo, checkout, calendar, m).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now.Add(-time.Hour), repo.cutoff)
	assert.Equal(t, &Response{Found: 2, Expired: 2}, resp)
	assert.Equal(t, []int64{1, 4}, repo.failed)
	assert.Equal(t, []string{"cs_1"}, checkout.expired)
	assert.Equal(t, []string{"evt-1"}, calendar.deleted)
	assert.Equal(t, 2, m.expired)
}

func TestExecute_SkipsBookingWhenSessionCannotBeExpired(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CheckoutSessionID: ptr.Ptr("cs_paid"), CalendarEventID: ptr.Ptr("evt-1")},
	}}
	checkout := &fakeCheckout{failFor: map[string]bool{"cs_paid": true}}
	calendar := &fakeCalendar{}

	resp, err := newUseCase(repo, checkout, calendar, &fakeMetrics{}).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Skipped)
	assert.Zero(t, resp.Expired)
	assert.Empty(t, repo.failed)
	assert.Empty(t, calendar.deleted)
}

func TestExecute_StoreErrors(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		repo := &fakeBookingRepo{listErr: errors.New("connection refused")}

		_, err := newUseCase(repo, &fakeCheckout{}, &fakeCalendar{}, &fakeMetrics{}).Execute(context.Background())
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("mark", func(t *testing.T) {
		repo := &fakeBookingRepo{
			bookings: []*domain.Booking{{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CalendarEventID: ptr.Ptr("evt-1")}},
			markErr:  errors.New("deadlock detected"),
		}
		calendar := &fakeCalendar{}

		_, err := newUseCase(repo, &fakeCheckout{}, calendar, &fakeMetrics{}).Execute(context.Background())
		assert.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, calendar.deleted)
	})
}

func TestExecute_NothingToDo(t *testing.T) {
	m := &fakeMetrics{}

	resp, err := newUseCase(&fakeBookingRepo{}, &fakeCheckout{}, &fakeCalendar{}, m).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{}, resp)
	assert.Zero(t, m.expired)
}

func TestExecute_LeavesBookingConfirmedDuringSweep(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CheckoutSessionID: ptr.Ptr("cs_1"), CalendarEventID: ptr.Ptr("evt-1")},
			{ID: 2, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CalendarEventID: ptr.Ptr("evt-2")},
		},
		changed: map[int64]domain.BookingStatus{1: domain.StatusConfirmed},
	}
	calendar := &fakeCalendar{}
	m := &fakeMetrics{}

	resp, err := newUseCase(repo, &fakeCheckout{}, calendar, m).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{Found: 2, Expired: 1, Skipped: 1}, resp)
	assert.Equal(t, []int64{1, 2}, repo.reads)
	assert.Equal(t, []int64{2}, repo.failed)
	assert.Equal(t, []string{"evt-2"}, calendar.deleted)
	assert.Equal(t, 1, m.expired)
}

func TestExecute_ExpiresSessionsOutsideTransaction(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CheckoutSessionID: ptr.Ptr("cs_1")},
		{ID: 2, Status: domain.StatusPending, CreatedAt: now.Add(-3 * time.Hour), CheckoutSessionID: ptr.Ptr("cs_2")},
	}}
	tx := &recordingTx{}
	checkout := &fakeCheckout{tx: tx}

	uc := NewUseCase(repo, checkout, &fakeCalendar{}, tx, time.Hour, &fakeMetrics{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Expired)
	assert.Equal(t, []string{"cs_1", "cs_2"}, checkout.expired)
	assert.Zero(t, checkout.inTx)
	assert.Equal(t, 2, tx.calls, "each booking is marked in its own transaction")
}

func TestExecute_MarkErrorKeepsAlreadyReleasedSlotsFree(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CalendarEventID: ptr.Ptr("evt-1")},
		{ID: 2, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CalendarEventID: ptr.Ptr("evt-2")},
	}}
	calendar := &fakeCalendar{}
	checkout := &fakeCheckout{}
	uc := newUseCase(repo, checkout, calendar, &fakeMetrics{})
	uc.bookingRepo = &failSecondMark{fakeBookingRepo: repo}

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []int64{1}, repo.failed)
	assert.Equal(t, []string{"evt-1"}, calendar.deleted)
}

type failSecondMark struct {
	*fakeBookingRepo
}

func (r *failSecondMark) MarkFailed(ctx context.Context, id int64, reason string) error {
	if len(r.failed) > 0 {
		return errors.New("deadlock detected")
	}
	return r.fakeBookingRepo.MarkFailed(ctx, id, reason)
}

func TestExecute_SkipsBookingRemovedDuringSweep(t *testing.T) {
	stale := &domain.Booking{ID: 7, Status: domain.StatusPending, CreatedAt: now.Add(-2 * time.Hour), CalendarEventID: ptr.Ptr("evt-7")}
	repo := &fakeBookingRepo{bookings: []*domain.Booking{stale}}
	uc := newUseCase(repo, &fakeCheckout{}, &fakeCalendar{}, &fakeMetrics{})
	uc.bookingRepo = &removedAfterList{fakeBookingRepo: repo}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{Found: 1, Skipped: 1}, resp)
	assert.Empty(t, repo.failed)
}

type removedAfterList struct {
	*fakeBookingRepo
}

func (r *removedAfterList) GetByID(context.Context, int64) (*domain.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}
