package services

import (
	"context"
	"errors"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// BlobService keeps uploaded images in Postgres, addressed by path.
type BlobService struct {
	db *database.DB
}

func NewBlobService(db *database.DB) *BlobService {
	return &BlobService{db: db}
}

// Put stores data under path, replacing any previous object.
func (s *BlobService) Put(ctx context.Context, path, contentType string, data []byte) (*models.Blob, error) {
	blob := &models.Blob{Path: path, ContentType: contentType, Size: int64(len(data))}
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO blobs (path, content_type, data, size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, size = EXCLUDED.size
		RETURNING created_at
	`, path, contentType, data, blob.Size).Scan(&blob.CreatedAt)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *BlobService) Get(ctx context.Context, path string) (*models.Blob, error) {
	var blob models.Blob
	err := s.db.Pool.QueryRow(ctx, `
		SELECT path, content_type, data, size, created_at
		FROM blobs WHERE path = $1
	`, path).Scan(&blob.Path, &blob.ContentType, &blob.Data, &blob.Size, &blob.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &blob, nil
}
