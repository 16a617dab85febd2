package handlers

import (
	"context"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
)

// IdentityServiceInterface defines the credential operations used by handlers
type IdentityServiceInterface interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	CreatePasswordReset(ctx context.Context, email string) (*models.User, string, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (uuid.UUID, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, avatarURL *string) (*models.User, error)
}

// RoleServiceInterface defines the methods used by handlers from RoleService
type RoleServiceInterface interface {
	GetRole(ctx context.Context, userID uuid.UUID) (identity.Role, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(sub services.TokenSubject) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendPasswordReset(to, link string) error
}

// ProfessionalServiceInterface defines the methods used by handlers from ProfessionalService
type ProfessionalServiceInterface interface {
	List(ctx context.Context) ([]models.Professional, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Professional, error)
	Create(ctx context.Context, in dto.ProfessionalInput) (*models.Professional, error)
	Update(ctx context.Context, id uuid.UUID, in dto.ProfessionalInput) (*models.Professional, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SearchBySpecialty(ctx context.Context, specialty string) ([]models.Professional, error)
}

// BlogServiceInterface defines the methods used by handlers from BlogService
type BlogServiceInterface interface {
	List(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	Create(ctx context.Context, in dto.BlogInput) (*models.Blog, error)
	Update(ctx context.Context, id uuid.UUID, in dto.BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SearchByCategory(ctx context.Context, category string) ([]models.Blog, error)
}

// CommunityServiceInterface defines the methods used by handlers from CommunityService
type CommunityServiceInterface interface {
	List(ctx context.Context) ([]models.Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error)
	Create(ctx context.Context, in dto.CommunityInput) (*models.Community, error)
	Update(ctx context.Context, id uuid.UUID, in dto.CommunityInput) (*models.Community, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SearchByCategory(ctx context.Context, category string) ([]models.Community, error)
}

// BlobServiceInterface defines the methods used by handlers from BlobService
type BlobServiceInterface interface {
	Put(ctx context.Context, path, contentType string, data []byte) (*models.Blob, error)
	Get(ctx context.Context, path string) (*models.Blob, error)
}

// HubInterface defines the methods used by the session stream handler
type HubInterface interface {
	Register(client *events.Client) error
	Unregister(client *events.Client)
}
