package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mkroener/hall-booking/internal/model"
	"github.com/mkroener/hall-booking/internal/recurrence"
)

// ReservationRepo provides CRUD operations for reservation occurrence rows.
// A single booking request may expand into several rows under a recurrence
// rule; all of them share user, hall, purpose, details and extras and differ
// only in their start/end timestamps.  Timestamps are stored as UTC wall
// clock in DATETIME columns.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationRecord carries the occurrence-independent fields of a booking
// request: everything except the start/end pair, which comes from the
// expanded occurrence list.
type ReservationRecord struct {
	UserID  uint64
	HallID  uint64
	Purpose string
	Details *string
	Extras  model.ExtrasFlags
}

const insertReservationSQL = `INSERT INTO reservations (
	u_id, h_id, r_start_datetime, r_end_datetime,
	r_purpose, r_other_details,
	bar, kitchen, wc, microphone, laser_pointer, projector,
	seating, folding_tables, standing_tables, stage_lighting,
	lighting_console, partition_elements, plates_and_cutlery
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// execer is the subset of *sql.Tx / *sql.DB the insert loop needs.  Keeping
// the loop behind this interface lets the sequential-insert contract be
// exercised without a database.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertOccurrences writes one row per occurrence, strictly sequential and
// in index order, and returns the generated ids in the same order.  The
// extras flag arguments are computed once; they are identical for every
// occurrence of a request.  The first failing insert aborts the loop.
func insertOccurrences(ctx context.Context, ex execer, rec ReservationRecord, occs []recurrence.Occurrence) ([]uint64, error) {
	flagArgs := rec.Extras.Args()
	ids := make([]uint64, 0, len(occs))
	for _, occ := range occs {
		args := make([]any, 0, 19)
		args = append(args,
			rec.UserID, rec.HallID,
			model.FormatDateTime(occ.Start), model.FormatDateTime(occ.End),
			rec.Purpose, rec.Details)
		args = append(args, flagArgs...)

		res, err := ex.ExecContext(ctx, insertReservationSQL, args...)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// CreateOccurrences persists all occurrences of a booking request inside a
// single transaction and returns the new row ids in occurrence order.  The
// operation is all or nothing: when insert k fails, occurrences 0..k-1 are
// rolled back and no rows remain.  (The legacy service committed each row
// individually and left partial bookings behind on failure; the transaction
// is a deliberate change.)
func (r *ReservationRepo) CreateOccurrences(ctx context.Context, rec ReservationRecord, occs []recurrence.Occurrence) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids, err := insertOccurrences(ctx, tx, rec, occs)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ids, nil
}

// ReservationDetail is one reservation row shaped for the listing endpoint,
// joined with the requesting user's name.  The embedded extras flags expose
// the 13 equipment columns flat, matching the legacy response.
type ReservationDetail struct {
	ID        uint64  `json:"reservationId"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	HallID    uint64  `json:"hall"`
	Reason    string  `json:"reason"`
	Details   *string `json:"details"`
	Confirmed *bool   `json:"confirmed"`
	model.ExtrasFlags
	Title string `json:"title"`
}

// ListAll returns every reservation occurrence joined with the requester's
// display name.  Timestamps are returned as RFC3339 UTC strings.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	const q = `SELECT r.r_id, r.r_start_datetime, r.r_end_datetime, r.h_id,
	                  r.r_purpose, r.r_other_details, r.r_confirmed,
	                  r.bar, r.kitchen, r.wc, r.microphone, r.laser_pointer, r.projector,
	                  r.seating, r.folding_tables, r.standing_tables, r.stage_lighting,
	                  r.lighting_console, r.partition_elements, r.plates_and_cutlery,
	                  CONCAT(u.u_first_name, ' ', u.u_last_name)
	           FROM reservations r
	           JOIN users u ON u.u_id = r.u_id
	           ORDER BY r.r_start_datetime`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var start, end time.Time
		var otherDetails sql.NullString
		var confirmed sql.NullBool
		if err := rows.Scan(
			&d.ID, &start, &end, &d.HallID,
			&d.Reason, &otherDetails, &confirmed,
			&d.Bar, &d.Kitchen, &d.WC, &d.Microphone, &d.LaserPointer, &d.Projector,
			&d.Seating, &d.FoldingTables, &d.StandingTables, &d.StageLighting,
			&d.LightingConsole, &d.PartitionElements, &d.PlatesAndCutlery,
			&d.Title,
		); err != nil {
			return nil, err
		}
		d.Start = start.UTC().Format(time.RFC3339)
		d.End = end.UTC().Format(time.RFC3339)
		if otherDetails.Valid {
			v := otherDetails.String
			d.Details = &v
		}
		if confirmed.Valid {
			v := confirmed.Bool
			d.Confirmed = &v
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// rowScanner is what a single-row lookup yields.  *sql.Row has no exported
// constructor, so faking the lookup means abstracting at the Scan level.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryExecer extends execer with the single-row lookup the confirmation
// update needs for its existence check.
type queryExecer interface {
	execer
	QueryRowContext(ctx context.Context, query string, args ...any) rowScanner
}

// sqlQueryExecer adapts *sql.DB to queryExecer.
type sqlQueryExecer struct{ db *sql.DB }

func (s sqlQueryExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func (s sqlQueryExecer) QueryRowContext(ctx context.Context, query string, args ...any) rowScanner {
	return s.db.QueryRowContext(ctx, query, args...)
}

// setConfirmation updates the tri-state confirmation flag of one row:
// true accepted, false declined, nil back to pending.  The existence check
// runs first because MySQL reports zero affected rows when the update does
// not change the value, which would make repeated confirms look like a
// missing row instead of the no-op they are.  RowsAffected must not be used
// to detect a missing row here.
func setConfirmation(ctx context.Context, qx queryExecer, id uint64, confirmed *bool) error {
	var one int
	err := qx.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE r_id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	_, err = qx.ExecContext(ctx, `UPDATE reservations SET r_confirmed = ? WHERE r_id = ?`, confirmed, id)
	return err
}

// SetConfirmation sets the confirmation flag of a reservation.  Repeating a
// call with the same value is a no-op, not an error.
func (r *ReservationRepo) SetConfirmation(ctx context.Context, id uint64, confirmed *bool) error {
	return setConfirmation(ctx, sqlQueryExecer{db: r.db}, id, confirmed)
}

// Delete removes a reservation occurrence by id.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE r_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
