package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. Tests inject a
// pgxmock pool through the same interface.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores slots and appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("scheduling: database required")
	}
	return &PostgresRepository{db: db}
}

// GetOrCreateSlot upserts the slot for (doctor, date, time) and returns it.
// The no-op DO UPDATE makes RETURNING yield the existing row on conflict
// without resetting is_booked.
func (r *PostgresRepository) GetOrCreateSlot(ctx context.Context, doctorID string, date time.Time, slotTime string) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (id, doctor_id, slot_date, slot_time, is_booked)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (doctor_id, slot_date, slot_time)
		DO UPDATE SET doctor_id = EXCLUDED.doctor_id
		RETURNING id, doctor_id, slot_date, slot_time, is_booked
	`
	var slot TimeSlot
	if err := r.db.QueryRow(ctx, query, uuid.NewString(), doctorID, date, slotTime).Scan(
		&slot.ID,
		&slot.DoctorID,
		&slot.Date,
		&slot.Time,
		&slot.IsBooked,
	); err != nil {
		return nil, fmt.Errorf("scheduling: upsert slot: %w", err)
	}
	return &slot, nil
}

// ReserveAndCreate reserves the slot and inserts the appointment in one
// transaction. The conditional UPDATE serializes concurrent bookings:
// only the caller that flips is_booked from false to true proceeds, every
// other caller gets ErrSlotTaken.
func (r *PostgresRepository) ReserveAndCreate(ctx context.Context, slotID string, appt *Appointment) (*Appointment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduling: begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE time_slots SET is_booked = TRUE WHERE id = $1 AND is_booked = FALSE`, slotID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: reserve slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSlotTaken
	}

	cp := *appt
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.SlotID = slotID
	cp.Status = StatusScheduled

	insert := `
		INSERT INTO appointments (id, patient_id, doctor_id, slot_id, type, symptoms, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insert,
		cp.ID,
		cp.PatientID,
		cp.DoctorID,
		cp.SlotID,
		string(cp.Type),
		cp.Symptoms,
		string(cp.Status),
	).Scan(&cp.CreatedAt); err != nil {
		return nil, fmt.Errorf("scheduling: insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("scheduling: commit booking tx: %w", err)
	}
	return &cp, nil
}

const appointmentColumns = `
	a.id, a.patient_id, a.doctor_id, a.slot_id, a.type, a.symptoms, a.status,
	COALESCE(a.notes, ''), COALESCE(a.completed_by, ''), a.created_at,
	pu.name, du.name,
	s.id, s.doctor_id, s.slot_date, s.slot_time, s.is_booked
`

const appointmentJoins = `
	FROM appointments a
	JOIN time_slots s ON s.id = a.slot_id
	JOIN patients p ON p.id = a.patient_id
	JOIN users pu ON pu.id = p.user_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users du ON du.id = d.user_id
`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var slot TimeSlot
	var typ, status, completedBy string
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.SlotID,
		&typ,
		&a.Symptoms,
		&status,
		&a.Notes,
		&completedBy,
		&a.CreatedAt,
		&a.PatientName,
		&a.DoctorName,
		&slot.ID,
		&slot.DoctorID,
		&slot.Date,
		&slot.Time,
		&slot.IsBooked,
	); err != nil {
		return nil, err
	}
	a.Type = AppointmentType(typ)
	a.Status = Status(status)
	a.CompletedBy = CompletedBy(completedBy)
	a.Slot = &slot
	return &a, nil
}

// GetAppointment fetches one appointment with denormalized detail.
func (r *PostgresRepository) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentJoins + ` WHERE a.id = $1`
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("scheduling: select appointment: %w", err)
	}
	return appt, nil
}

// UpdateStatus applies a status transition. A transition to CANCELLED also
// releases the slot inside the same transaction so a cancelled appointment
// can never strand its slot as booked.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, params UpdateStatusParams) (*Appointment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduling: begin status tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	update := `
		UPDATE appointments
		SET status = $2, notes = NULLIF($3, ''), completed_by = NULLIF($4, '')
		WHERE id = $1
		RETURNING slot_id
	`
	var slotID string
	if err := tx.QueryRow(ctx, update, id, string(params.Status), params.Notes, string(params.CompletedBy)).Scan(&slotID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("scheduling: update appointment: %w", err)
	}

	if params.Status == StatusCancelled {
		if _, err := tx.Exec(ctx, `UPDATE time_slots SET is_booked = FALSE WHERE id = $1`, slotID); err != nil {
			return nil, fmt.Errorf("scheduling: release slot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("scheduling: commit status tx: %w", err)
	}
	return r.GetAppointment(ctx, id)
}

// DeleteAndRelease removes the appointment and releases its slot atomically.
func (r *PostgresRepository) DeleteAndRelease(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("scheduling: begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var slotID string
	if err := tx.QueryRow(ctx, `DELETE FROM appointments WHERE id = $1 RETURNING slot_id`, id).Scan(&slotID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("scheduling: delete appointment: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE time_slots SET is_booked = FALSE WHERE id = $1`, slotID); err != nil {
		return fmt.Errorf("scheduling: release slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("scheduling: commit delete tx: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's appointments ordered by slot date.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentJoins + `
		WHERE a.patient_id = $1
		ORDER BY s.slot_date, s.slot_time`
	return r.list(ctx, query, patientID)
}

// ListByDoctor returns a doctor's appointments ordered by slot date.
func (r *PostgresRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentJoins + `
		WHERE a.doctor_id = $1
		ORDER BY s.slot_date, s.slot_time`
	return r.list(ctx, query, doctorID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scheduling: list rows: %w", err)
	}
	return out, nil
}
