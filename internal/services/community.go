package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const communityColumns = `id, name, description, image_url, categories, link, created_at, updated_at`

type CommunityService struct {
	db *database.DB
}

func NewCommunityService(db *database.DB) *CommunityService {
	return &CommunityService{db: db}
}

func scanCommunity(row pgx.Row) (*models.Community, error) {
	var c models.Community
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL,
		&c.Categories, &c.Link, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCommunityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommunityService) List(ctx context.Context) ([]models.Community, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+communityColumns+`
		FROM communities
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCommunity)
}

func (s *CommunityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	return scanCommunity(s.db.Pool.QueryRow(ctx, `
		SELECT `+communityColumns+`
		FROM communities WHERE id = $1
	`, id))
}

func (s *CommunityService) Create(ctx context.Context, in dto.CommunityInput) (*models.Community, error) {
	return scanCommunity(s.db.Pool.QueryRow(ctx, `
		INSERT INTO communities (name, description, image_url, categories, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+communityColumns,
		deref(trimmed(in.Name)),
		deref(trimmed(in.Description)),
		deref(trimmed(in.ImageURL)),
		deref(cleanList(in.Categories)),
		deref(trimmed(in.Link)),
	))
}

func (s *CommunityService) Update(ctx context.Context, id uuid.UUID, in dto.CommunityInput) (*models.Community, error) {
	if in.Name == nil && in.Description == nil && in.ImageURL == nil && in.Categories == nil && in.Link == nil {
		return nil, ErrNoFieldsToUpdate
	}

	return scanCommunity(s.db.Pool.QueryRow(ctx, `
		UPDATE communities
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			image_url = COALESCE($3, image_url),
			categories = COALESCE($4, categories),
			link = COALESCE($5, link),
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+communityColumns,
		trimmed(in.Name), trimmed(in.Description), trimmed(in.ImageURL),
		cleanList(in.Categories), trimmed(in.Link), id,
	))
}

func (s *CommunityService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM communities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommunityNotFound
	}
	return nil
}

func (s *CommunityService) SearchByCategory(ctx context.Context, category string) ([]models.Community, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+communityColumns+`
		FROM communities
		WHERE $1 = ANY(categories)
		ORDER BY name
	`, category)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCommunity)
}
