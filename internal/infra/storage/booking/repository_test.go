package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/psqlbuilder"
)

func TestIsSlotTaken(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "other error", err: errors.New("boom"), want: false},
		{name: "active slot index", err: &pq.Error{Code: "23505", Constraint: activeSlotIndex}, want: true},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: activeSlotIndex}), want: true},
		{name: "other unique constraint", err: &pq.Error{Code: "23505", Constraint: "bookings_reference_key"}, want: false},
		{name: "foreign key", err: &pq.Error{Code: "23503"}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isSlotTaken(tc.err))
		})
	}
}

func TestAppendNote_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusFailed).
		Set("notes", appendNote("expired")).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "notes = CONCAT_WS(E'\\n', NULLIF(notes, ''), $2::text)")
	assert.Equal(t, []interface{}{domain.StatusFailed, "expired"}, args)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed"}, statusStrings(domain.OccupyingStatuses))
	assert.Empty(t, statusStrings(nil))
}
