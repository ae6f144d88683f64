package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores doctor profiles in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const doctorColumns = `
	d.id, d.user_id, u.name, u.email, d.specialty, d.experience, d.location,
	d.address, d.expertise, d.languages, d.consultation_fee, d.available,
	d.video_consultation, d.image, d.created_at
`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Email,
		&d.Specialty,
		&d.Experience,
		&d.Location,
		&d.Address,
		&d.Expertise,
		&d.Languages,
		&d.ConsultationFee,
		&d.Available,
		&d.VideoConsultation,
		&d.Image,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns all doctor profiles joined with their user accounts.
func (r *PostgresRepository) List(ctx context.Context) ([]*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("doctors: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one doctor by profile id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`
	d, err := scanDoctor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	return d, nil
}

// GetByUserID fetches the doctor profile linked to a user account.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.user_id = $1
	`
	d, err := scanDoctor(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select by user failed: %w", err)
	}
	return d, nil
}

// Create inserts a new doctor profile row.
func (r *PostgresRepository) Create(ctx context.Context, doc *Doctor) (*Doctor, error) {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
		INSERT INTO doctors (id, user_id, specialty, experience, location, address,
			expertise, languages, consultation_fee, available, video_consultation, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	cp := *doc
	cp.ID = id
	if err := r.pool.QueryRow(ctx, query,
		id,
		doc.UserID,
		doc.Specialty,
		doc.Experience,
		doc.Location,
		doc.Address,
		doc.Expertise,
		doc.Languages,
		doc.ConsultationFee,
		doc.Available,
		doc.VideoConsultation,
		doc.Image,
	).Scan(&cp.CreatedAt); err != nil {
		return nil, fmt.Errorf("doctors: insert failed: %w", err)
	}
	return &cp, nil
}

// UpdateProfile applies a doctor's profile edit and returns the updated row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Doctor, error) {
	query := `
		UPDATE doctors SET
			specialty = $2,
			experience = $3,
			location = $4,
			address = $5,
			expertise = $6,
			languages = $7,
			consultation_fee = $8,
			available = $9,
			video_consultation = $10
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		id,
		req.Specialty,
		req.Experience,
		req.Location,
		req.Address,
		[]string(req.Expertise),
		[]string(req.Languages),
		req.ConsultationFee,
		req.Available,
		req.VideoConsultation,
	)
	if err != nil {
		return nil, fmt.Errorf("doctors: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrDoctorNotFound
	}
	return r.GetByID(ctx, id)
}
