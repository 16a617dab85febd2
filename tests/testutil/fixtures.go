package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every fixture user unless overridden
const DefaultPassword = "password123"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// CreateUser creates a test user with a "user" role record
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	name := fmt.Sprintf("Test User %d", f.counter)
	user := &models.User{
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName: &name,
	}

	for _, opt := range opts {
		opt(t, user)
	}
	if user.PasswordHash == "" {
		user.PasswordHash = hashPassword(t, DefaultPassword)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, avatar_url, disabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL, user.Disabled).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	f.SetRole(t, user, identity.RoleUser)
	return user
}

// UserOption configures a test user
type UserOption func(*testing.T, *models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(_ *testing.T, u *models.User) {
		u.Email = email
	}
}

// WithDisplayName sets the user's display name
func WithDisplayName(name string) UserOption {
	return func(_ *testing.T, u *models.User) {
		u.DisplayName = &name
	}
}

// WithAvatar sets the user's avatar URL
func WithAvatar(url string) UserOption {
	return func(_ *testing.T, u *models.User) {
		u.AvatarURL = &url
	}
}

// WithPassword sets the user's password
func WithPassword(password string) UserOption {
	return func(t *testing.T, u *models.User) {
		u.PasswordHash = hashPassword(t, password)
	}
}

// Disabled marks the account as disabled
func Disabled() UserOption {
	return func(_ *testing.T, u *models.User) {
		u.Disabled = true
	}
}

// SetRole writes the role record of a user, or deletes it for RoleUnknown
func (f *Fixtures) SetRole(t *testing.T, user *models.User, role identity.Role) {
	t.Helper()
	ctx := context.Background()

	var err error
	if role == identity.RoleUnknown {
		_, err = f.db.Pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID)
	} else {
		_, err = f.db.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		`, user.ID, role.String())
	}
	if err != nil {
		t.Fatalf("failed to set role: %v", err)
	}
}

// CreateAdmin creates a test user with an "admin" role record
func (f *Fixtures) CreateAdmin(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	user := f.CreateUser(t, opts...)
	f.SetRole(t, user, identity.RoleAdmin)
	return user
}

// CreateProfessional creates a test professional with the given specialties
func (f *Fixtures) CreateProfessional(t *testing.T, specialties ...string) *models.Professional {
	t.Helper()
	f.counter++

	if len(specialties) == 0 {
		specialties = []string{"Pediatria"}
	}
	p := &models.Professional{
		Name:        fmt.Sprintf("Profissional %d", f.counter),
		Address:     fmt.Sprintf("Rua %d, 100", f.counter),
		ImageURL:    "https://example.com/professional.png",
		Specialties: specialties,
		WhatsApp:    "11987654321",
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO professionals (name, address, image_url, specialties, whatsapp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Address, p.ImageURL, p.Specialties, p.WhatsApp).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create professional: %v", err)
	}

	return p
}

// CreateBlog creates a test blog with the given categories
func (f *Fixtures) CreateBlog(t *testing.T, categories ...string) *models.Blog {
	t.Helper()
	f.counter++

	if len(categories) == 0 {
		categories = []string{"Saúde"}
	}
	b := &models.Blog{
		Name:       fmt.Sprintf("Blog %d", f.counter),
		ImageURL:   "https://example.com/blog.png",
		Categories: categories,
		Link:       fmt.Sprintf("https://blog%d.example.com", f.counter),
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO blogs (name, image_url, categories, link)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, b.Name, b.ImageURL, b.Categories, b.Link).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create blog: %v", err)
	}

	return b
}

// CreateCommunity creates a test community with the given categories
func (f *Fixtures) CreateCommunity(t *testing.T, categories ...string) *models.Community {
	t.Helper()
	f.counter++

	if len(categories) == 0 {
		categories = []string{"Família"}
	}
	c := &models.Community{
		Name:        fmt.Sprintf("Comunidade %d", f.counter),
		Description: "Grupo de apoio",
		ImageURL:    "https://example.com/community.png",
		Categories:  categories,
		Link:        fmt.Sprintf("https://chat.example.com/%d", f.counter),
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO communities (name, description, image_url, categories, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Description, c.ImageURL, c.Categories, c.Link).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create community: %v", err)
	}

	return c
}

// CreateRefreshToken creates a test refresh token for a new session
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) *models.RefreshToken {
	t.Helper()
	ctx := context.Background()

	token := &models.RefreshToken{
		UserID:    userID,
		SessionID: uuid.New(),
		TokenHash: tokenHash,
		AuthTime:  time.Now(),
		ExpiresAt: expiresAt,
	}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO refresh_tokens (user_id, session_id, token_hash, auth_time, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, token.UserID, token.SessionID, token.TokenHash, token.AuthTime, token.ExpiresAt).Scan(&token.ID)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}

	return token
}
