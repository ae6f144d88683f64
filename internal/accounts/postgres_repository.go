package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careconnect/careconnect-api/internal/identity"
)

// PostgresRepository stores accounts in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("accounts: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// CreateUser inserts a new user row. A unique violation on email maps to
// ErrEmailTaken.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	cp := *user
	cp.ID = id
	if err := r.pool.QueryRow(ctx, query,
		id,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	).Scan(&cp.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("accounts: insert user: %w", err)
	}
	return &cp, nil
}

// GetUserByEmail fetches a user by email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	var user User
	var role string
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("accounts: select user: %w", err)
	}
	user.Role = identity.Role(role)
	return &user, nil
}

// CreatePatient inserts a patient row linked to a user.
func (r *PostgresRepository) CreatePatient(ctx context.Context, patient *Patient) (*Patient, error) {
	id := patient.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
		INSERT INTO patients (id, user_id, phone_number)
		VALUES ($1, $2, $3)
	`
	if _, err := r.pool.Exec(ctx, query, id, patient.UserID, patient.PhoneNumber); err != nil {
		return nil, fmt.Errorf("accounts: insert patient: %w", err)
	}
	cp := *patient
	cp.ID = id
	return &cp, nil
}

// GetPatientByUserID fetches the patient record linked to a user account.
func (r *PostgresRepository) GetPatientByUserID(ctx context.Context, userID string) (*Patient, error) {
	query := `SELECT id, user_id, phone_number FROM patients WHERE user_id = $1`
	return r.scanPatient(r.pool.QueryRow(ctx, query, userID))
}

// GetPatientByID fetches a patient by id.
func (r *PostgresRepository) GetPatientByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT id, user_id, phone_number FROM patients WHERE id = $1`
	return r.scanPatient(r.pool.QueryRow(ctx, query, id))
}

// GetPatientInfo fetches patient display detail joined with the user account.
func (r *PostgresRepository) GetPatientInfo(ctx context.Context, patientID string) (*PatientInfo, error) {
	query := `
		SELECT p.id, u.name, u.email, p.phone_number
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	var info PatientInfo
	if err := r.pool.QueryRow(ctx, query, patientID).Scan(
		&info.PatientID,
		&info.Name,
		&info.Email,
		&info.PhoneNumber,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("accounts: select patient info: %w", err)
	}
	return &info, nil
}

func (r *PostgresRepository) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(&p.ID, &p.UserID, &p.PhoneNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("accounts: select patient: %w", err)
	}
	return &p, nil
}
