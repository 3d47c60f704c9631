package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_RejectsMalformedInput(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)

	cases := []struct {
		name        string
		date, clock string
	}{
		{"bad date", "2026-2-1", "08:00:00"},
		{"empty date", "", "08:00:00"},
		{"bad time", "2026-02-01", "8:00"},
		{"empty time", "2026-02-01", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Log(context.Background(), 1, 1, tc.date, tc.clock)
			assert.Error(t, err)
		})
	}

	// validation failures never touch the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntriesInDateRange(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)

	cols := []string{"id", "user_id", "custom_food_id", "date", "time"}
	mock.ExpectQuery(`SELECT .+ FROM "food_log_entries" WHERE user_id = .+ AND date BETWEEN`).
		WithArgs(int64(7), "2026-02-10", "2026-02-11").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), int64(7), int64(3), "2026-02-10", "20:30:00").
			AddRow(int64(2), int64(7), int64(3), "2026-02-11", "08:15:00"))

	entries, err := svc.EntriesInDateRange(context.Background(), 7, "2026-02-10", "2026-02-11")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-02-10", entries[0].Date)
	assert.Equal(t, "20:30:00", entries[0].Time)
	assert.Equal(t, uint(3), entries[1].CustomFoodID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "food_log_entries" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Delete(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
