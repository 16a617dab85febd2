package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const professionalColumns = `id, name, address, image_url, specialties, whatsapp, created_at, updated_at`

type ProfessionalService struct {
	db *database.DB
}

func NewProfessionalService(db *database.DB) *ProfessionalService {
	return &ProfessionalService{db: db}
}

func scanProfessional(row pgx.Row) (*models.Professional, error) {
	var p models.Professional
	err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.ImageURL,
		&p.Specialties, &p.WhatsApp, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfessionalService) List(ctx context.Context) ([]models.Professional, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+professionalColumns+`
		FROM professionals
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProfessional)
}

func (s *ProfessionalService) GetByID(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	return scanProfessional(s.db.Pool.QueryRow(ctx, `
		SELECT `+professionalColumns+`
		FROM professionals WHERE id = $1
	`, id))
}

// Create stores an already validated professional.
func (s *ProfessionalService) Create(ctx context.Context, in dto.ProfessionalInput) (*models.Professional, error) {
	return scanProfessional(s.db.Pool.QueryRow(ctx, `
		INSERT INTO professionals (name, address, image_url, specialties, whatsapp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+professionalColumns,
		deref(trimmed(in.Name)),
		deref(trimmed(in.Address)),
		deref(trimmed(in.ImageURL)),
		deref(cleanList(in.Specialties)),
		directory.FormatPhone(deref(in.WhatsApp)),
	))
}

// Update applies the non-nil fields of in.
func (s *ProfessionalService) Update(ctx context.Context, id uuid.UUID, in dto.ProfessionalInput) (*models.Professional, error) {
	if in.Name == nil && in.Address == nil && in.ImageURL == nil && in.Specialties == nil && in.WhatsApp == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var whatsapp *string
	if in.WhatsApp != nil {
		formatted := directory.FormatPhone(*in.WhatsApp)
		whatsapp = &formatted
	}

	return scanProfessional(s.db.Pool.QueryRow(ctx, `
		UPDATE professionals
		SET name = COALESCE($1, name),
			address = COALESCE($2, address),
			image_url = COALESCE($3, image_url),
			specialties = COALESCE($4, specialties),
			whatsapp = COALESCE($5, whatsapp),
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+professionalColumns,
		trimmed(in.Name), trimmed(in.Address), trimmed(in.ImageURL),
		cleanList(in.Specialties), whatsapp, id,
	))
}

func (s *ProfessionalService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM professionals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfessionalNotFound
	}
	return nil
}

// SearchBySpecialty returns the professionals listing specialty.
func (s *ProfessionalService) SearchBySpecialty(ctx context.Context, specialty string) ([]models.Professional, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+professionalColumns+`
		FROM professionals
		WHERE $1 = ANY(specialties)
		ORDER BY name
	`, specialty)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProfessional)
}
