package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "10:05", want: "10:05"},
		{in: " 9:00 ", want: "09:00"},
		{in: "15:55:00", want: "15:55"},
		{in: "25:00", wantErr: true},
		{in: "10am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	date := time.Date(2025, time.December, 6, 0, 0, 0, 0, time.UTC)
	got, err := TimeString("10:05").On(date, loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 6, 10, 5, 0, 0, loc), got)
	// AEDT, UTC+11
	assert.Equal(t, 23, got.UTC().Hour())
	assert.Equal(t, 5, got.UTC().Day())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:05:00"))
	assert.Equal(t, TimeString("10:05"), ts)

	require.NoError(t, ts.Scan([]byte("11:30:00")))
	assert.Equal(t, TimeString("11:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)

	v, err := TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
