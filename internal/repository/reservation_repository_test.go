package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkroener/hall-booking/internal/model"
	"github.com/mkroener/hall-booking/internal/recurrence"
)

// fakeResult implements sql.Result with a fixed insert id.
type fakeResult struct{ id int64 }

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return 1, nil }

// fakeExecer records every ExecContext call and can be told to fail at a
// specific call index.  Generated ids start at 100 and increase, mimicking
// the engine's monotonically increasing identifiers.
type fakeExecer struct {
	calls  [][]any
	failAt int // call index that fails; -1 never fails
	nextID int64
}

func newFakeExecer(failAt int) *fakeExecer {
	return &fakeExecer{failAt: failAt, nextID: 100}
}

func (f *fakeExecer) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	if f.failAt >= 0 && len(f.calls) == f.failAt {
		return nil, errors.New("storage failure")
	}
	f.calls = append(f.calls, args)
	id := f.nextID
	f.nextID++
	return fakeResult{id: id}, nil
}

func testRecord() ReservationRecord {
	details := "round tables please"
	return ReservationRecord{
		UserID:  7,
		HallID:  1,
		Purpose: "Meeting",
		Details: &details,
		Extras:  model.ExtrasFromLabels([]string{model.ExtraBar, model.ExtraProjector}),
	}
}

func weeklyOccurrences(t *testing.T, count int) []recurrence.Occurrence {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2025-02-09T07:30:00Z")
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, "2025-02-09T09:00:00Z")
	require.NoError(t, err)
	return recurrence.Expand(start, end, recurrence.Rule{Interval: recurrence.Weekly, Count: count})
}

func TestInsertOccurrencesOrderAndIDs(t *testing.T) {
	ex := newFakeExecer(-1)

	ids, err := insertOccurrences(context.Background(), ex, testRecord(), weeklyOccurrences(t, 3))
	require.NoError(t, err)

	// One insert per occurrence, ids positional in occurrence order.
	require.Len(t, ex.calls, 3)
	assert.Equal(t, []uint64{100, 101, 102}, ids)

	// Occurrence-specific datetimes in canonical DATETIME form, in index order.
	wantStarts := []string{"2025-02-09 07:30:00", "2025-02-16 07:30:00", "2025-02-23 07:30:00"}
	wantEnds := []string{"2025-02-09 09:00:00", "2025-02-16 09:00:00", "2025-02-23 09:00:00"}
	for i, call := range ex.calls {
		require.Len(t, call, 19)
		assert.Equal(t, uint64(7), call[0], "u_id")
		assert.Equal(t, uint64(1), call[1], "h_id")
		assert.Equal(t, wantStarts[i], call[2])
		assert.Equal(t, wantEnds[i], call[3])
		assert.Equal(t, "Meeting", call[4])
	}
}

func TestInsertOccurrencesExtrasSharedAcrossRows(t *testing.T) {
	ex := newFakeExecer(-1)

	_, err := insertOccurrences(context.Background(), ex, testRecord(), weeklyOccurrences(t, 3))
	require.NoError(t, err)

	// bar and projector set, the other eleven flags clear, on every row.
	for _, call := range ex.calls {
		flags := call[6:]
		require.Len(t, flags, 13)
		assert.Equal(t, true, flags[0], "bar")
		assert.Equal(t, true, flags[5], "projector")
		for i, v := range flags {
			if i == 0 || i == 5 {
				continue
			}
			assert.Equal(t, false, v, "flag index %d", i)
		}
	}
}

func TestInsertOccurrencesAbortsOnFirstFailure(t *testing.T) {
	ex := newFakeExecer(2) // third insert fails

	ids, err := insertOccurrences(context.Background(), ex, testRecord(), weeklyOccurrences(t, 5))
	require.Error(t, err)
	assert.Nil(t, ids)
	// The loop stops at the failing insert; no later occurrence is attempted.
	assert.Len(t, ex.calls, 2)
}

func TestInsertOccurrencesNullDetails(t *testing.T) {
	ex := newFakeExecer(-1)
	rec := testRecord()
	rec.Details = nil

	_, err := insertOccurrences(context.Background(), ex, rec, weeklyOccurrences(t, 1))
	require.NoError(t, err)
	require.Len(t, ex.calls, 1)
	assert.Nil(t, ex.calls[0][5], "r_other_details must be NULL when absent")
}

// fakeRow scans a constant 1 into its destination, or fails.
type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int); ok {
		*p = 1
	}
	return nil
}

// affectedResult reports a configurable RowsAffected.
type affectedResult struct{ n int64 }

func (r affectedResult) LastInsertId() (int64, error) { return 0, nil }
func (r affectedResult) RowsAffected() (int64, error) { return r.n, nil }

// fakeConfirmDB holds reservation rows keyed by id and mimics MySQL's UPDATE
// semantics: an update that does not change the stored value reports zero
// affected rows.
type fakeConfirmDB struct {
	rows    map[uint64]*bool
	updates int
}

func (f *fakeConfirmDB) QueryRowContext(_ context.Context, _ string, args ...any) rowScanner {
	id := args[0].(uint64)
	if _, ok := f.rows[id]; !ok {
		return fakeRow{err: sql.ErrNoRows}
	}
	return fakeRow{}
}

func (f *fakeConfirmDB) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	value := args[0].(*bool)
	id := args[1].(uint64)
	current := f.rows[id]
	affected := int64(1)
	if (current == nil && value == nil) ||
		(current != nil && value != nil && *current == *value) {
		affected = 0
	}
	f.rows[id] = value
	f.updates++
	return affectedResult{n: affected}, nil
}

func TestSetConfirmationIsIdempotent(t *testing.T) {
	confirmed := true
	db := &fakeConfirmDB{rows: map[uint64]*bool{9: nil}}

	require.NoError(t, setConfirmation(context.Background(), db, 9, &confirmed))
	require.NotNil(t, db.rows[9])
	assert.True(t, *db.rows[9])

	// Confirming an already-confirmed row changes nothing on the engine side
	// (zero affected rows) and must still succeed, not surface as not-found.
	require.NoError(t, setConfirmation(context.Background(), db, 9, &confirmed))
	assert.Equal(t, 2, db.updates)
	require.NotNil(t, db.rows[9])
	assert.True(t, *db.rows[9])
}

func TestSetConfirmationTriState(t *testing.T) {
	db := &fakeConfirmDB{rows: map[uint64]*bool{3: nil}}

	declined := false
	require.NoError(t, setConfirmation(context.Background(), db, 3, &declined))
	require.NotNil(t, db.rows[3])
	assert.False(t, *db.rows[3])

	// nil resets the row to pending.
	require.NoError(t, setConfirmation(context.Background(), db, 3, nil))
	assert.Nil(t, db.rows[3])
}

func TestSetConfirmationUnknownID(t *testing.T) {
	confirmed := true
	db := &fakeConfirmDB{rows: map[uint64]*bool{}}

	err := setConfirmation(context.Background(), db, 404, &confirmed)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 0, db.updates, "no update may run for a missing row")
}
