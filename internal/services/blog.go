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

const blogColumns = `id, name, image_url, categories, link, created_at, updated_at`

type BlogService struct {
	db *database.DB
}

func NewBlogService(db *database.DB) *BlogService {
	return &BlogService{db: db}
}

func scanBlog(row pgx.Row) (*models.Blog, error) {
	var b models.Blog
	err := row.Scan(&b.ID, &b.Name, &b.ImageURL, &b.Categories, &b.Link, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBlog)
}

func (s *BlogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return scanBlog(s.db.Pool.QueryRow(ctx, `
		SELECT `+blogColumns+`
		FROM blogs WHERE id = $1
	`, id))
}

func (s *BlogService) Create(ctx context.Context, in dto.BlogInput) (*models.Blog, error) {
	return scanBlog(s.db.Pool.QueryRow(ctx, `
		INSERT INTO blogs (name, image_url, categories, link)
		VALUES ($1, $2, $3, $4)
		RETURNING `+blogColumns,
		deref(trimmed(in.Name)),
		deref(trimmed(in.ImageURL)),
		deref(cleanList(in.Categories)),
		deref(trimmed(in.Link)),
	))
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, in dto.BlogInput) (*models.Blog, error) {
	if in.Name == nil && in.ImageURL == nil && in.Categories == nil && in.Link == nil {
		return nil, ErrNoFieldsToUpdate
	}

	return scanBlog(s.db.Pool.QueryRow(ctx, `
		UPDATE blogs
		SET name = COALESCE($1, name),
			image_url = COALESCE($2, image_url),
			categories = COALESCE($3, categories),
			link = COALESCE($4, link),
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+blogColumns,
		trimmed(in.Name), trimmed(in.ImageURL), cleanList(in.Categories), trimmed(in.Link), id,
	))
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (s *BlogService) SearchByCategory(ctx context.Context, category string) ([]models.Blog, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE $1 = ANY(categories)
		ORDER BY name
	`, category)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBlog)
}
